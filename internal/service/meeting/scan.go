package meeting

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// ScanUnvalidated validates every tracked meeting that has not yet been
// through the state machine. One failing meeting does not stop the scan.
// Returns the number of meetings processed.
func (s *Service) ScanUnvalidated(ctx context.Context) (int, error) {
	scheduled := domain.MeetingStatusScheduled
	meetings, err := s.meetings.List(ctx, domain.MeetingFilter{
		Status:      &scheduled,
		Unvalidated: true,
	})
	if err != nil {
		return 0, fmt.Errorf("list unvalidated: %w", err)
	}

	processed := 0
	for _, m := range meetings {
		if _, err := s.Validate(ctx, m.EventID); err != nil {
			s.log.Error("scan validation failed", "event_id", m.EventID, "error", err)
			continue
		}
		processed++
	}

	if len(meetings) > 0 {
		s.log.Info("scan finished", "found", len(meetings), "processed", processed)
	}

	return processed, nil
}
