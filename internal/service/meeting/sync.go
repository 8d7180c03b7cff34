package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// syncHorizon bounds the webhook fan-out. Calendar push notifications do
// not say which event changed, so every scheduled meeting inside the
// horizon is re-read.
const syncHorizon = 30 * 24 * time.Hour

// Sync reconciles a tracked meeting with the provider's current view of the
// event. Changed RSVP answers are stored and scored with the same on-time
// rule as direct submissions; an updated agenda is re-parsed and re-scored.
// Called from the calendar webhook.
// SyncUpcoming reconciles every scheduled meeting starting within the next
// thirty days. One failing meeting never stops the pass. Returns the number
// of meetings synced.
func (s *Service) SyncUpcoming(ctx context.Context) (int, error) {
	now := s.now()
	until := now.Add(syncHorizon)
	scheduled := domain.MeetingStatusScheduled

	meetings, err := s.meetings.List(ctx, domain.MeetingFilter{
		Status:       &scheduled,
		StartsAfter:  &now,
		StartsBefore: &until,
	})
	if err != nil {
		return 0, fmt.Errorf("list scheduled meetings: %w", err)
	}

	synced := 0
	for _, m := range meetings {
		if err := s.Sync(ctx, m.EventID); err != nil {
			s.log.Error("meeting sync failed", "event_id", m.EventID, "error", err)
			continue
		}
		synced++
	}

	return synced, nil
}

func (s *Service) Sync(ctx context.Context, eventID string) error {
	m, err := s.meetings.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get meeting %s: %w", eventID, err)
	}

	if m.Status != domain.MeetingStatusScheduled {
		return nil
	}

	snap, err := s.calendar.GetEvent(ctx, m.CalendarID, eventID)
	if err != nil {
		return fmt.Errorf("fetch event %s: %w", eventID, err)
	}

	fresh := s.fromSnapshot(snap)

	if fresh.Agenda.Raw != m.Agenda.Raw {
		if err := s.meetings.SetAgenda(ctx, eventID, fresh.Agenda, fresh.QualityScore); err != nil {
			return fmt.Errorf("update agenda %s: %w", eventID, err)
		}
		// An organizer who fixes the agenda after a warning earns credit.
		if m.Agenda.RawLength() < s.policy.MinAgendaChars &&
			fresh.Agenda.RawLength() >= s.policy.MinAgendaChars {
			if err := s.ledger.ApplyEvent(ctx, m.Creator, domain.ScoreEventAgendaAdded, s.now()); err != nil {
				s.log.Warn("score event failed", "event_id", eventID, "event", "AGENDA_ADDED", "error", err)
			}
		}
		s.log.Info("agenda synced", "event_id", eventID, "quality_score", fresh.QualityScore)
	}

	now := s.now()
	for _, updated := range fresh.Attendees {
		current := m.Attendee(updated.Email)
		if current == nil || current.ResponseStatus == updated.ResponseStatus {
			continue
		}

		if err := s.meetings.UpdateAttendeeResponse(ctx, eventID, updated.Email, updated.ResponseStatus); err != nil {
			s.log.Error("response sync failed", "event_id", eventID, "email", updated.Email, "error", err)
			continue
		}

		if current.ResponseStatus == domain.ResponseNeedsAction &&
			updated.ResponseStatus != domain.ResponseNeedsAction &&
			now.Before(m.StartTime) {
			if err := s.ledger.ApplyEvent(ctx, updated.Email, domain.ScoreEventRSVPOnTime, now); err != nil {
				s.log.Warn("score event failed", "event_id", eventID, "event", "RSVP_ON_TIME", "error", err)
			}
		}
	}

	return nil
}
