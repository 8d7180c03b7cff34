package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/config"
	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

type meetingRepo interface {
	List(ctx context.Context, f domain.MeetingFilter) ([]*domain.Meeting, error)
	RecordReminder(ctx context.Context, eventID, email string, at time.Time) error
	Cancel(ctx context.Context, eventID string, status domain.MeetingStatus, reason string) (bool, error)
	MarkRoomReleased(ctx context.Context, eventID string) (bool, error)
}

// calendarProvider mirrors policy decisions to the upstream calendar.
// Best effort, the database decision stands regardless.
type calendarProvider interface {
	CancelEvent(ctx context.Context, calendarID, eventID string) error
}

type notifier interface {
	RSVPReminder(ctx context.Context, m *domain.Meeting, a domain.Attendee, tier domain.ReminderTier) error
	MeetingCancelled(ctx context.Context, m *domain.Meeting, reason string) error
	MandatoryDeclined(ctx context.Context, m *domain.Meeting, email string) error
	RoomReleased(ctx context.Context, m *domain.Meeting) error
}

// scoreLedger records the gamification side of reminder escalation.
type scoreLedger interface {
	RecordIgnoredReminder(ctx context.Context, email string, at time.Time) error
}

// Service runs the nudging jobs.
type Service struct {
	meetings meetingRepo
	calendar calendarProvider
	notifier notifier
	ledger   scoreLedger
	jobs     config.JobsConfig
	log      *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates a new reminder service.
func NewService(
	log *slog.Logger,
	meetings meetingRepo,
	calendar calendarProvider,
	notifier notifier,
	ledger scoreLedger,
	jobs config.JobsConfig,
) *Service {
	return &Service{
		meetings: meetings,
		calendar: calendar,
		notifier: notifier,
		ledger:   ledger,
		jobs:     jobs,
		log:      log.With("service", "reminder"),
		now:      time.Now,
	}
}

// upcomingScheduled lists scheduled meetings starting inside (now, now+window].
func (s *Service) upcomingScheduled(ctx context.Context, window time.Duration) ([]*domain.Meeting, error) {
	now := s.now()
	until := now.Add(window)
	scheduled := domain.MeetingStatusScheduled

	return s.meetings.List(ctx, domain.MeetingFilter{
		Status:       &scheduled,
		StartsAfter:  &now,
		StartsBefore: &until,
	})
}
