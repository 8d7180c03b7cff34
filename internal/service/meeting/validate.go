package meeting

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
	"github.com/chronokeeper/chronokeeper-backend/internal/service/agenda"
)

// soloAgendaThreshold is the raw length under which a solo meeting's agenda
// is replaced with a personal-reminder placeholder.
const soloAgendaThreshold = 10

// soloPlaceholderScore is the neutral score given to placeholder agendas.
const soloPlaceholderScore = 50

// Validate runs the policy state machine over a meeting and returns the
// decision. The decision is persisted before any external side effect:
// calendar and notification failures are logged, never unwound.
//
// Solo meetings are exempt from cancellation. Meetings with attendees and
// an agenda under the minimum are auto-cancelled; an agenda that clears the
// minimum but scores under the warning threshold gets a one-time warning.
func (s *Service) Validate(ctx context.Context, eventID string) (domain.ValidationAction, error) {
	m, err := s.meetings.GetByID(ctx, eventID)
	if err != nil {
		return "", fmt.Errorf("get meeting %s: %w", eventID, err)
	}

	if m.Status != domain.MeetingStatusScheduled {
		// Already decided elsewhere. Stamp and move on.
		if m.ValidatedAt == nil {
			if err := s.meetings.MarkValidated(ctx, eventID, s.now()); err != nil {
				return "", fmt.Errorf("mark validated %s: %w", eventID, err)
			}
		}
		return domain.ActionApproved, nil
	}

	action := s.decide(ctx, m)

	if err := s.meetings.MarkValidated(ctx, eventID, s.now()); err != nil {
		return "", fmt.Errorf("mark validated %s: %w", eventID, err)
	}

	s.log.Info("meeting validated",
		"event_id", eventID,
		"action", action.String(),
		"quality_score", m.QualityScore,
		"attendees", len(m.Attendees),
	)

	return action, nil
}

func (s *Service) decide(ctx context.Context, m *domain.Meeting) domain.ValidationAction {
	if m.IsSolo() {
		if m.Agenda.RawLength() < soloAgendaThreshold {
			placeholder := domain.Agenda{Raw: "Personal reminder"}
			if err := s.meetings.SetAgenda(ctx, m.EventID, placeholder, soloPlaceholderScore); err != nil {
				s.log.Error("set placeholder agenda failed", "event_id", m.EventID, "error", err)
			}
		}
		return domain.ActionApproved
	}

	if chars := m.Agenda.RawLength(); chars < s.policy.MinAgendaChars {
		reason := fmt.Sprintf("Agenda is %d chars, minimum is %d", chars, s.policy.MinAgendaChars)
		s.autoCancel(ctx, m, reason)
		return domain.ActionCancelled
	}

	if m.QualityScore < s.policy.QualityWarnBelow {
		if err := s.notifier.QualityWarning(ctx, m); err != nil {
			s.log.Warn("quality warning delivery failed", "event_id", m.EventID, "error", err)
		}
		return domain.ActionApprovedWithWarning
	}

	return domain.ActionApproved
}

// autoCancel persists the cancellation, then mirrors it to the calendar and
// tells the organizer. Only the winner of the status transition performs
// the side effects.
func (s *Service) autoCancel(ctx context.Context, m *domain.Meeting, reason string) {
	won, err := s.meetings.Cancel(ctx, m.EventID, domain.MeetingStatusAutoCancelled, reason)
	if err != nil {
		s.log.Error("auto-cancel persist failed", "event_id", m.EventID, "error", err)
		return
	}
	if !won {
		return
	}

	if err := s.calendar.CancelEvent(ctx, m.CalendarID, m.EventID); err != nil {
		s.log.Warn("calendar cancel failed", "event_id", m.EventID, "error", err)
	}
	if err := s.notifier.MeetingCancelled(ctx, m, reason); err != nil {
		s.log.Warn("cancellation notice failed", "event_id", m.EventID, "error", err)
	}
}

// AnalyzeAgenda returns the advisory weighted analysis for an agenda text.
func (s *Service) AnalyzeAgenda(_ context.Context, text string) agenda.Analysis {
	return agenda.Analyze(text)
}
