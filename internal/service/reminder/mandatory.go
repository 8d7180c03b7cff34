package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// mandatoryWindow is how far ahead the mandatory-attendee check looks.
const mandatoryWindow = 24 * time.Hour

// CheckMandatory cancels meetings starting within the next day whose
// mandatory attendees have declined. A meeting without a declined
// mandatory attendee is left alone. Returns the number cancelled.
func (s *Service) CheckMandatory(ctx context.Context) (int, error) {
	meetings, err := s.upcomingScheduled(ctx, mandatoryWindow)
	if err != nil {
		return 0, fmt.Errorf("list upcoming meetings: %w", err)
	}

	cancelled := 0
	for _, m := range meetings {
		if !m.HasMandatoryDecline() {
			continue
		}

		declined := declinedMandatory(m)
		reason := fmt.Sprintf("Mandatory attendee %s declined", declined)

		won, err := s.meetings.Cancel(ctx, m.EventID, domain.MeetingStatusAutoCancelled, reason)
		if err != nil {
			s.log.Error("mandatory cancel failed", "event_id", m.EventID, "error", err)
			continue
		}
		if !won {
			continue
		}

		s.log.Info("meeting cancelled, mandatory attendee declined",
			"event_id", m.EventID, "attendee", declined)

		if err := s.calendar.CancelEvent(ctx, m.CalendarID, m.EventID); err != nil {
			s.log.Warn("calendar cancel failed", "event_id", m.EventID, "error", err)
		}
		if err := s.notifier.MandatoryDeclined(ctx, m, declined); err != nil {
			s.log.Warn("mandatory decline notice failed", "event_id", m.EventID, "error", err)
		}
		if err := s.notifier.MeetingCancelled(ctx, m, reason); err != nil {
			s.log.Warn("cancellation notice failed", "event_id", m.EventID, "error", err)
		}

		cancelled++
	}

	if cancelled > 0 {
		s.log.Info("mandatory check finished", "meetings", len(meetings), "cancelled", cancelled)
	}

	return cancelled, nil
}

// declinedMandatory returns the first mandatory attendee that declined.
func declinedMandatory(m *domain.Meeting) string {
	for _, email := range m.MandatoryAttendees {
		if a := m.Attendee(email); a != nil && a.ResponseStatus == domain.ResponseDeclined {
			return email
		}
	}
	return ""
}
