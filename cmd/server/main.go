// Command server runs the meeting policy engine: the REST API, the
// calendar webhook, and the periodic enforcement jobs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/identity"
	meetingrepo "github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/meeting"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/postgres/userstats"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/provider/gcal"
	"github.com/chronokeeper/chronokeeper-backend/internal/adapter/provider/slacknotify"
	"github.com/chronokeeper/chronokeeper-backend/internal/app"
	"github.com/chronokeeper/chronokeeper-backend/internal/auth"
	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/scheduler"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/gamification"
	meetingsvc "github.com/chronokeeper/chronokeeper-backend/internal/service/meeting"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/reminder"
	"github.com/chronokeeper/chronokeeper-backend/internal/transport/middleware"
	"github.com/chronokeeper/chronokeeper-backend/internal/transport/rest"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting", slog.String("version", app.BuildVersion()))

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories.
	meetings := meetingrepo.New(pool)
	stats := userstats.New(pool)
	identities := identity.New(pool)

	// Providers.
	calendar, err := gcal.NewClient(ctx, cfg.Calendar, logger)
	if err != nil {
		return fmt.Errorf("calendar client: %w", err)
	}
	notifier := slacknotify.New(cfg.Slack.BotToken, identities, stats, logger)
	if !notifier.Enabled() {
		logger.Warn("slack bot token missing, notifications disabled")
	}

	// Services.
	gamSvc := gamification.NewService(logger, stats, notifier)
	meetSvc := meetingsvc.NewService(logger, meetings, calendar, notifier, gamSvc, cfg.Policy)
	remSvc := reminder.NewService(logger, meetings, calendar, notifier, gamSvc, cfg.Jobs)

	// Periodic jobs.
	sched := scheduler.New(logger)
	jobs := []struct {
		name string
		spec string
		fn   scheduler.JobFunc
	}{
		{"reminder-batch", cfg.Jobs.ReminderSchedule, remSvc.RunBatch},
		{"mandatory-check", cfg.Jobs.MandatorySchedule, remSvc.CheckMandatory},
		{"room-reclaim", cfg.Jobs.RoomSchedule, remSvc.ReclaimRooms},
		{"meeting-scan", cfg.Jobs.ScanSchedule, meetSvc.ScanUnvalidated},
	}
	for _, j := range jobs {
		if err := sched.Register(j.name, j.spec, j.fn); err != nil {
			return err
		}
	}
	sched.Start()

	// HTTP.
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	limiter := middleware.NewRateLimiter(5 * time.Minute)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Health:   rest.NewHealthHandler(pool, app.BuildVersion()),
		Meetings: rest.NewMeetingHandler(meetSvc, logger),
		Stats:    rest.NewStatsHandler(gamSvc, logger),
		Webhook:  rest.NewWebhookHandler(meetSvc, cfg.Calendar.WebhookToken, logger),
		Admin:    rest.NewAdminHandler(remSvc, meetSvc, gamSvc, notifier, meetings, stats, calendar, cfg.Calendar.WebhookURL, logger),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      rest.NewRouter(handlers, jwtManager, limiter, cfg.CORS, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.String("error", err.Error()))
	}
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Error("scheduler shutdown", slog.String("error", err.Error()))
	}

	logger.Info("stopped")
	return nil
}
