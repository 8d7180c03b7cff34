package meeting

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// SubmitRSVP records an attendee's answer. The answer is written back to
// the calendar on a best-effort basis. An on-time score event fires when a
// non-responder answers before the meeting starts; later flip-flops between
// answers score nothing.
func (s *Service) SubmitRSVP(ctx context.Context, eventID, email string, status domain.ResponseStatus) error {
	if !status.IsValid() || status == domain.ResponseNeedsAction {
		return domain.NewValidationError("response_status", "must be accepted, declined, or tentative")
	}

	m, err := s.meetings.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get meeting %s: %w", eventID, err)
	}

	if m.Status != domain.MeetingStatusScheduled {
		return fmt.Errorf("meeting %s is %s: %w", eventID, m.Status, domain.ErrConflict)
	}

	attendee := m.Attendee(email)
	if attendee == nil {
		return fmt.Errorf("attendee %s on %s: %w", email, eventID, domain.ErrNotFound)
	}
	previous := attendee.ResponseStatus

	if err := s.meetings.UpdateAttendeeResponse(ctx, eventID, email, status); err != nil {
		return fmt.Errorf("update response: %w", err)
	}

	if err := s.calendar.UpdateRSVP(ctx, m.CalendarID, eventID, email, status); err != nil {
		s.log.Warn("calendar RSVP write-back failed", "event_id", eventID, "email", email, "error", err)
	}

	now := s.now()
	if previous == domain.ResponseNeedsAction && now.Before(m.StartTime) {
		if err := s.ledger.ApplyEvent(ctx, email, domain.ScoreEventRSVPOnTime, now); err != nil {
			s.log.Warn("score event failed", "event_id", eventID, "event", "RSVP_ON_TIME", "error", err)
		}
	}

	s.log.Info("rsvp recorded", "event_id", eventID, "email", email, "status", status.String())
	return nil
}
