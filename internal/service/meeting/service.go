// Package meeting implements the meeting lifecycle policy: registration,
// agenda validation, RSVP handling, and retention.
package meeting

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

type meetingRepo interface {
	GetByID(ctx context.Context, eventID string) (*domain.Meeting, error)
	Create(ctx context.Context, m *domain.Meeting) error
	List(ctx context.Context, f domain.MeetingFilter) ([]*domain.Meeting, error)
	SetAgenda(ctx context.Context, eventID string, agenda domain.Agenda, score int) error
	MarkValidated(ctx context.Context, eventID string, at time.Time) error
	Cancel(ctx context.Context, eventID string, status domain.MeetingStatus, reason string) (bool, error)
	UpdateAttendeeResponse(ctx context.Context, eventID, email string, status domain.ResponseStatus) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// calendarProvider is the upstream calendar. Writes to it are best effort:
// the database is the source of truth and a provider failure never rolls
// back a decision already persisted.
type calendarProvider interface {
	GetEvent(ctx context.Context, calendarID, eventID string) (*domain.EventSnapshot, error)
	ListUpcoming(ctx context.Context, calendarID string, from time.Time, window time.Duration) ([]*domain.EventSnapshot, error)
	CancelEvent(ctx context.Context, calendarID, eventID string) error
	PatchDescription(ctx context.Context, calendarID, eventID, text string) error
	UpdateRSVP(ctx context.Context, calendarID, eventID, email string, status domain.ResponseStatus) error
}

// notifier delivers policy decisions to the people affected. Best effort.
type notifier interface {
	MeetingCancelled(ctx context.Context, m *domain.Meeting, reason string) error
	QualityWarning(ctx context.Context, m *domain.Meeting) error
}

// scoreLedger records scorable behavior.
type scoreLedger interface {
	ApplyEvent(ctx context.Context, email string, event domain.ScoreEvent, at time.Time) error
}

// Service provides meeting lifecycle operations.
type Service struct {
	meetings meetingRepo
	calendar calendarProvider
	notifier notifier
	ledger   scoreLedger
	policy   config.PolicyConfig
	log      *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new meeting service.
func NewService(
	log *slog.Logger,
	meetings meetingRepo,
	calendar calendarProvider,
	notifier notifier,
	ledger scoreLedger,
	policy config.PolicyConfig,
) *Service {
	return &Service{
		meetings: meetings,
		calendar: calendar,
		notifier: notifier,
		ledger:   ledger,
		policy:   policy,
		log:      log.With("service", "meeting"),
		now:      time.Now,
	}
}
