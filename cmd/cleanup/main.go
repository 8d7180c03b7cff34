// Command cleanup removes meetings whose end time is older than the
// configured retention period. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
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
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/meeting"
	"github.com/chronokeeper/chronokeeper-backend/internal/app"
	"github.com/chronokeeper/chronokeeper-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	meetingRepo := meeting.New(pool)

	cutoff := time.Now().AddDate(0, 0, -cfg.Policy.RetentionDays)

	deleted, err := meetingRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("retention cleanup failed",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff),
		)
		os.Exit(1)
	}

	logger.Info("retention cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
	)
}
