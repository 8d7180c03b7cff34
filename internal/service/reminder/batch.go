package reminder

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// RunBatch sends every due RSVP reminder for meetings starting inside the
// lookahead window. The reminder is recorded before it is sent, so a
// crashed run can at worst skip a nudge, never double-send after restart.
// A cheeky-tier send bumps the attendee's ghost counters by one point.
// One failing attendee never stops the batch. Returns the number sent.
func (s *Service) RunBatch(ctx context.Context) (int, error) {
	meetings, err := s.upcomingScheduled(ctx, s.jobs.ReminderLookahead)
	if err != nil {
		return 0, fmt.Errorf("list upcoming meetings: %w", err)
	}

	now := s.now()
	sent := 0
	for _, m := range meetings {
		for _, a := range m.NonResponders() {
			tier, due := SelectTier(a, m.StartTime.Sub(now), now)
			if !due {
				continue
			}

			if err := s.meetings.RecordReminder(ctx, m.EventID, a.Email, now); err != nil {
				s.log.Error("record reminder failed", "event_id", m.EventID, "email", a.Email, "error", err)
				continue
			}

			if err := s.notifier.RSVPReminder(ctx, m, a, tier); err != nil {
				s.log.Warn("reminder delivery failed",
					"event_id", m.EventID, "email", a.Email, "tier", tier.String(), "error", err)
			}

			if tier == domain.TierCheeky {
				if err := s.ledger.RecordIgnoredReminder(ctx, a.Email, now); err != nil {
					s.log.Warn("ignored-reminder record failed", "email", a.Email, "error", err)
				}
			}

			sent++
		}
	}

	s.log.Info("reminder batch finished", "meetings", len(meetings), "sent", sent)
	return sent, nil
}
