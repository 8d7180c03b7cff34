package gamification

import (
	"context"
	"fmt"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Badge thresholds. Badges are a live reflection of the counters: dropping
// back below a threshold revokes the badge.
const (
	agendaNinjaMeetings   = 10
	rsvpChampionScore     = 20
	serialGhostScore      = 5
	meetingMonkAgenda     = 15
	meetingMonkRSVP       = 15
	meetingMonkGhostLimit = 3
	streakMasterStreak    = 10
	punctualityProRSVPs   = 20
)

// DesiredBadges computes the badge set the counters currently justify.
// Pure: persistence and notification happen elsewhere.
func DesiredBadges(s *domain.UserStats) []domain.BadgeType {
	var out []domain.BadgeType

	if s.MeetingsWithAgenda >= agendaNinjaMeetings {
		out = append(out, domain.BadgeAgendaNinja)
	}
	if s.RSVPScore >= rsvpChampionScore {
		out = append(out, domain.BadgeRSVPChampion)
	}
	if s.GhostScore >= serialGhostScore {
		out = append(out, domain.BadgeSerialGhost)
	}
	if s.AgendaScore >= meetingMonkAgenda &&
		s.RSVPScore >= meetingMonkRSVP &&
		s.GhostScore < meetingMonkGhostLimit {
		out = append(out, domain.BadgeMeetingMonk)
	}
	if s.CurrentRSVPStreak >= streakMasterStreak {
		out = append(out, domain.BadgeStreakMaster)
	}
	if s.RSVPsOnTime >= punctualityProRSVPs {
		out = append(out, domain.BadgePunctualityPro)
	}

	return out
}

// EvaluateBadges reconciles an address's stored badges against its counters
// and announces changes. Notification failures are logged, not returned.
func (s *Service) EvaluateBadges(ctx context.Context, email string) (awarded, revoked []domain.BadgeType, err error) {
	stats, err := s.stats.Get(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("get stats for %s: %w", email, err)
	}

	awarded, revoked, err = s.stats.SyncBadges(ctx, email, DesiredBadges(stats))
	if err != nil {
		return nil, nil, fmt.Errorf("sync badges for %s: %w", email, err)
	}

	for _, b := range awarded {
		s.log.Info("badge awarded", "email", email, "badge", b.String())
		if err := s.notifier.BadgeAwarded(ctx, email, b); err != nil {
			s.log.Warn("badge notification failed", "email", email, "badge", b.String(), "error", err)
		}
	}
	for _, b := range revoked {
		s.log.Info("badge revoked", "email", email, "badge", b.String())
		if err := s.notifier.BadgeRevoked(ctx, email, b); err != nil {
			s.log.Warn("badge notification failed", "email", email, "badge", b.String(), "error", err)
		}
	}

	return awarded, revoked, nil
}

// EvaluateAll sweeps every tracked address. One failing address does not
// stop the sweep; the first error is reported after the pass completes.
func (s *Service) EvaluateAll(ctx context.Context) error {
	emails, err := s.stats.ListEmails(ctx)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}

	var firstErr error
	for _, email := range emails {
		if _, _, err := s.EvaluateBadges(ctx, email); err != nil {
			s.log.Error("badge sweep item failed", "email", email, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	s.log.Info("badge sweep finished", "addresses", len(emails))
	return firstErr
}
