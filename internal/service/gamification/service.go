// Package gamification maintains the score ledger and the badge set
// derived from it.
package gamification

import (
	"context"
	"log/slog"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

type statsRepo interface {
	Get(ctx context.Context, email string) (*domain.UserStats, error)
	ApplyDelta(ctx context.Context, email string, d domain.StatsDelta, at time.Time) error
	ResetStreak(ctx context.Context, email string) error
	SyncBadges(ctx context.Context, email string, desired []domain.BadgeType) (awarded, revoked []domain.BadgeType, err error)
	Reset(ctx context.Context, email string) error
	ListTop(ctx context.Context, limit int) ([]*domain.UserStats, error)
	ListEmails(ctx context.Context) ([]string, error)
}

// badgeNotifier delivers badge news. Delivery is best effort: a failed
// notification never rolls back a ledger write.
type badgeNotifier interface {
	BadgeAwarded(ctx context.Context, email string, badge domain.BadgeType) error
	BadgeRevoked(ctx context.Context, email string, badge domain.BadgeType) error
}

// Service provides score ledger and badge operations.
type Service struct {
	stats    statsRepo
	notifier badgeNotifier
	log      *slog.Logger
}

// NewService creates a new gamification service.
func NewService(
	log *slog.Logger,
	stats statsRepo,
	notifier badgeNotifier,
) *Service {
	return &Service{
		stats:    stats,
		notifier: notifier,
		log:      log.With("service", "gamification"),
	}
}
