package rest

import (
	"log/slog"
	"net/http"

	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/transport/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Meetings *MeetingHandler
	Stats    *StatsHandler
	Webhook  *WebhookHandler
	Admin    *AdminHandler
}

// tokenValidator validates dashboard bearer tokens.
type tokenValidator interface {
	ValidateAccessToken(token string) (email string, role string, err error)
}

// NewRouter builds the full HTTP handler: routes wrapped in the shared
// middleware chain. Auth is pass-through for tokenless requests, so the
// webhook route works without a bearer token; it guards itself with the
// channel token instead.
func NewRouter(h Handlers, validator tokenValidator, limiter *middleware.RateLimiter, cfg config.CORSConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Probes.
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	// Meeting lifecycle.
	mux.HandleFunc("POST /api/meetings/register", h.Meetings.Register)
	mux.HandleFunc("POST /api/meetings/analyze", h.Meetings.AnalyzeAgenda)
	mux.HandleFunc("GET /api/meetings/{eventID}", h.Meetings.Get)
	mux.HandleFunc("POST /api/meetings/{eventID}/rsvp", h.Meetings.SubmitRSVP)
	mux.HandleFunc("PUT /api/meetings/{eventID}/agenda", h.Meetings.FixAgenda)

	// Gamification reads.
	mux.HandleFunc("GET /api/users/{email}/stats", h.Stats.GetUser)
	mux.HandleFunc("GET /api/leaderboard", h.Stats.Leaderboard)

	// Calendar push notifications.
	mux.HandleFunc("POST /api/webhooks/calendar", h.Webhook.Calendar)

	// Admin triggers.
	mux.HandleFunc("POST /api/admin/trigger-reminders", h.Admin.TriggerReminders)
	mux.HandleFunc("POST /api/admin/trigger-mandatory-check", h.Admin.TriggerMandatoryCheck)
	mux.HandleFunc("POST /api/admin/trigger-room-reclaim", h.Admin.TriggerRoomReclaim)
	mux.HandleFunc("POST /api/admin/trigger-scan", h.Admin.TriggerScan)
	mux.HandleFunc("POST /api/admin/calendar/sync", h.Admin.SyncCalendar)
	mux.HandleFunc("POST /api/admin/calendar/watch", h.Admin.RegisterCalendarWatch)
	mux.HandleFunc("POST /api/admin/sync-slack-users", h.Admin.SyncSlackUsers)
	mux.HandleFunc("POST /api/admin/evaluate-badges", h.Admin.EvaluateBadges)
	mux.HandleFunc("POST /api/admin/users/{email}/reset", h.Admin.ResetUser)
	mux.HandleFunc("GET /api/admin/system-stats", h.Admin.SystemStats)

	return middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg),
		limiter.Limit(requestsPerMinute),
		middleware.Auth(validator),
	)(mux)
}

// requestsPerMinute is the per-IP budget. The add-on and the dashboard
// poll at human speed, anything past this is a stuck client.
const requestsPerMinute = 120
