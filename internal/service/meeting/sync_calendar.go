package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// syncWindow bounds how far ahead a calendar sync looks for untracked events.
const syncWindow = 7 * 24 * time.Hour

// SyncCalendar lists upcoming calendar events and registers any that are not
// yet tracked. One failing event does not stop the sync. Returns the number
// of newly registered meetings.
func (s *Service) SyncCalendar(ctx context.Context) (int, error) {
	snaps, err := s.calendar.ListUpcoming(ctx, "", s.now(), syncWindow)
	if err != nil {
		return 0, fmt.Errorf("list upcoming events: %w", err)
	}

	registered := 0
	for _, snap := range snaps {
		if snap.EventID == "" {
			continue
		}

		if _, err := s.meetings.GetByID(ctx, snap.EventID); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("sync lookup failed", "event_id", snap.EventID, "error", err)
			continue
		}

		if _, err := s.Register(ctx, snap.CalendarID, snap.EventID); err != nil {
			s.log.Error("sync registration failed", "event_id", snap.EventID, "error", err)
			continue
		}
		registered++
	}

	if len(snaps) > 0 {
		s.log.Info("calendar sync finished", "found", len(snaps), "registered", registered)
	}

	return registered, nil
}
