package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// roomReclaimWindow is how close to the start a meeting must be before its
// unused room is reclaimed.
const roomReclaimWindow = 15 * time.Minute

const roomReleaseReason = "Auto-released: No RSVPs"

// ReclaimRooms auto-cancels meetings starting within the next fifteen
// minutes that have a location and not a single accepted attendee. The
// released flag is claimed first, so each meeting is reclaimed at most once
// even with overlapping passes. Returns the number of rooms released.
func (s *Service) ReclaimRooms(ctx context.Context) (int, error) {
	meetings, err := s.upcomingScheduled(ctx, roomReclaimWindow)
	if err != nil {
		return 0, fmt.Errorf("list upcoming meetings: %w", err)
	}

	released := 0
	for _, m := range meetings {
		if m.Location == "" || m.IsSolo() || m.AcceptedCount() > 0 || m.WasRoomReleased {
			continue
		}

		won, err := s.meetings.MarkRoomReleased(ctx, m.EventID)
		if err != nil {
			s.log.Error("room release failed", "event_id", m.EventID, "error", err)
			continue
		}
		if !won {
			continue
		}

		if _, err := s.meetings.Cancel(ctx, m.EventID, domain.MeetingStatusAutoCancelled, roomReleaseReason); err != nil {
			s.log.Error("room release cancel failed", "event_id", m.EventID, "error", err)
			continue
		}

		s.log.Info("room released", "event_id", m.EventID, "location", m.Location)

		if err := s.calendar.CancelEvent(ctx, m.CalendarID, m.EventID); err != nil {
			s.log.Warn("calendar cancel failed", "event_id", m.EventID, "error", err)
		}
		if err := s.notifier.RoomReleased(ctx, m); err != nil {
			s.log.Warn("room release notice failed", "event_id", m.EventID, "error", err)
		}

		released++
	}

	if released > 0 {
		s.log.Info("room reclaim finished", "meetings", len(meetings), "released", released)
	}

	return released, nil
}
