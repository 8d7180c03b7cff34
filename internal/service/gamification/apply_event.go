package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// deltaFor maps a scorable event to its counter increments. The switch is
// total over the closed event set; an unknown event is a programming error
// surfaced as a validation failure, never a silent zero delta.
func deltaFor(event domain.ScoreEvent) (domain.StatsDelta, error) {
	switch event {
	case domain.ScoreEventAgendaAdded:
		return domain.StatsDelta{AgendaScore: 10, MeetingsWithAgenda: 1}, nil
	case domain.ScoreEventGhost:
		return domain.StatsDelta{GhostScore: 5, RSVPsIgnored: 1}, nil
	case domain.ScoreEventRSVPOnTime:
		return domain.StatsDelta{
			RSVPScore:       5,
			RSVPsOnTime:     1,
			IncrementStreak: true,
			TouchLastRSVP:   true,
		}, nil
	case domain.ScoreEventMeetingOrganized:
		return domain.StatsDelta{MeetingsOrganized: 1}, nil
	case domain.ScoreEventMeetingAttended:
		return domain.StatsDelta{MeetingsAttended: 1}, nil
	}
	return domain.StatsDelta{}, fmt.Errorf("score event %q: %w", event, domain.ErrValidation)
}

// ApplyEvent records a scorable event for an address and re-evaluates the
// badge set. Ghosting breaks the current RSVP streak.
func (s *Service) ApplyEvent(ctx context.Context, email string, event domain.ScoreEvent, at time.Time) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}

	delta, err := deltaFor(event)
	if err != nil {
		return err
	}

	if err := s.stats.ApplyDelta(ctx, email, delta, at); err != nil {
		return fmt.Errorf("apply %s for %s: %w", event, email, err)
	}

	if event == domain.ScoreEventGhost {
		if err := s.stats.ResetStreak(ctx, email); err != nil {
			return fmt.Errorf("reset streak for %s: %w", email, err)
		}
	}

	s.log.Debug("score event applied", "email", email, "event", event.String())

	if _, _, err := s.EvaluateBadges(ctx, email); err != nil {
		return fmt.Errorf("evaluate badges for %s: %w", email, err)
	}

	return nil
}

// RecordIgnoredReminder notes one unanswered escalated reminder: a single
// point of ghost score and one ignored RSVP. Deliberately lighter than the
// GHOST ledger event, so repeated nudging accumulates toward the serial-ghost
// badge instead of tripping it on the first send.
func (s *Service) RecordIgnoredReminder(ctx context.Context, email string, at time.Time) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}

	delta := domain.StatsDelta{GhostScore: 1, RSVPsIgnored: 1}
	if err := s.stats.ApplyDelta(ctx, email, delta, at); err != nil {
		return fmt.Errorf("record ignored reminder for %s: %w", email, err)
	}

	s.log.Debug("ignored reminder recorded", "email", email)

	if _, _, err := s.EvaluateBadges(ctx, email); err != nil {
		return fmt.Errorf("evaluate badges for %s: %w", email, err)
	}

	return nil
}
