package gamification

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

const defaultLeaderboardSize = 10

// GetStats returns the ledger record for an address.
func (s *Service) GetStats(ctx context.Context, email string) (*domain.UserStats, error) {
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}

	stats, err := s.stats.Get(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get stats for %s: %w", email, err)
	}

	return stats, nil
}

// Leaderboard returns the top addresses by agenda score, RSVP score as the
// tie breaker.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*domain.UserStats, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}

	top, err := s.stats.ListTop(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	return top, nil
}

// Reset zeroes an address's counters and strips its badges. Admin only;
// the transport layer enforces that.
func (s *Service) Reset(ctx context.Context, email string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}

	if err := s.stats.Reset(ctx, email); err != nil {
		return fmt.Errorf("reset stats for %s: %w", email, err)
	}

	s.log.Info("stats reset", "email", email)
	return nil
}
