package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Cleanup removes meetings that ended more than the retention window ago.
// Returns the number of meetings deleted.
func (s *Service) Cleanup(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.policy.RetentionDays)

	n, err := s.meetings.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention delete: %w", err)
	}

	if n > 0 {
		s.log.Info("retention cleanup", "deleted", n, "cutoff", cutoff.Format(time.RFC3339))
	}

	return n, nil
}

// Get returns a tracked meeting by event id.
func (s *Service) Get(ctx context.Context, eventID string) (*domain.Meeting, error) {
	return s.meetings.GetByID(ctx, eventID)
}
