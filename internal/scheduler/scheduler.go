// Package scheduler runs the periodic policy passes on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// JobFunc is a single periodic pass. The returned count is whatever the
// pass finds natural to report (reminders sent, meetings cancelled).
type JobFunc func(ctx context.Context) (int, error)

// Scheduler wraps a cron runner. Each job is guarded against overlapping
// runs: a tick firing while the previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

// New creates a scheduler. Jobs added later recover from panics and skip
// ticks that overlap a still-running execution.
func New(log *slog.Logger) *Scheduler {
	l := log.With("component", "scheduler")
	cl := &cronLogger{log: l}
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		log: l,
	}
}

// Register adds a named job on the given cron expression.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx := context.Background()
		n, err := fn(ctx)
		if err != nil {
			s.log.Error("job failed", "job", name, "error", err)
			return
		}
		s.log.Debug("job finished", "job", name, "count", n)
	})
	if err != nil {
		return fmt.Errorf("register job %s (%q): %w", name, spec, err)
	}

	s.log.Info("job registered", "job", name, "schedule", spec)
	return nil
}

// Start begins firing jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling new runs and waits for in-flight jobs to finish,
// or for the context to expire, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler shutdown: %w", ctx.Err())
	}
}

// cronLogger adapts slog to the cron logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
