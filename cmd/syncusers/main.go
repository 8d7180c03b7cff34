// Command syncusers pulls the full Slack workspace member list into the
// identity cache and stats profiles. Run it once after deployment and then
// on whatever cadence the workspace churns at.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/identity"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/userstats"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/provider/slacknotify"
	"github.com/chronokeeper/chronokeeper-backend/internal/app"
	"github.com/chronokeeper/chronokeeper-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	notifier := slacknotify.New(cfg.Slack.BotToken, identity.New(pool), userstats.New(pool), logger)
	if !notifier.Enabled() {
		logger.Error("slack bot token is not configured")
		os.Exit(1)
	}

	synced, err := notifier.SyncAllUsers(ctx)
	if err != nil {
		logger.Error("slack user sync failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("slack user sync completed", slog.Int("synced", synced))
}
