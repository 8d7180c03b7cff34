package meeting

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

// FixAgenda replaces the agenda of a tracked meeting, typically after a
// quality warning. The new text is rescored and stored, the calendar
// event description is patched best effort, and an organizer who had no
// qualifying agenda before earns the AGENDA_ADDED score event.
func (s *Service) FixAgenda(ctx context.Context, eventID, text string) (*domain.Meeting, error) {
	if eventID == "" {
		return nil, domain.NewValidationError("event_id", "is required")
	}
	if text == "" {
		return nil, domain.NewValidationError("agenda", "must not be empty")
	}

	m, err := s.meetings.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load meeting %s: %w", eventID, err)
	}
	if m.Status != domain.MeetingStatusScheduled {
		return nil, fmt.Errorf("meeting %s is %s: %w", eventID, m.Status, domain.ErrConflict)
	}

	hadAgenda := m.Agenda.RawLength() >= s.policy.MinAgendaChars

	parsed := agenda.ParseSections(text)
	score := agenda.ScoreSections(parsed)

	if err := s.meetings.SetAgenda(ctx, eventID, parsed, score); err != nil {
		return nil, fmt.Errorf("store agenda for %s: %w", eventID, err)
	}

	if err := s.calendar.PatchDescription(ctx, m.CalendarID, m.EventID, text); err != nil {
		s.log.Warn("calendar description patch failed", "event_id", eventID, "error", err)
	}

	if !hadAgenda && parsed.RawLength() >= s.policy.MinAgendaChars {
		if err := s.ledger.ApplyEvent(ctx, m.Creator, domain.ScoreEventAgendaAdded, s.now()); err != nil {
			s.log.Warn("score event failed", "event_id", eventID, "event", "AGENDA_ADDED", "error", err)
		}
	}

	s.log.Info("agenda updated", "event_id", eventID, "quality_score", score)

	return s.meetings.GetByID(ctx, eventID)
}
