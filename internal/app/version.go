package app

import "fmt"

// Version, Commit, and BuildTime are stamped by the build via
// -ldflags "-X .../internal/app.Version=...". Defaults cover local runs.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion renders the build identity for startup logs and the
// health endpoint.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
