package domain

import "time"

// Badge is an earned achievement. Each badge type is present at most once
// per user.
type Badge struct {
	Type        BadgeType
	EarnedAt    time.Time
	Description string
}

// UserStats holds the accumulated gamification counters for one address.
// A record is created lazily on the first scorable event and is only
// zeroed by an explicit admin reset.
type UserStats struct {
	Email       string
	Name        string
	SlackUserID string

	AgendaScore int
	RSVPScore   int
	GhostScore  int

	MeetingsOrganized  int
	MeetingsWithAgenda int
	MeetingsAttended   int
	RSVPsOnTime        int
	RSVPsIgnored       int

	// Invariant: BestRSVPStreak >= CurrentRSVPStreak.
	CurrentRSVPStreak int
	BestRSVPStreak    int
	LastRSVPDate      *time.Time

	Badges []Badge

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverallScore derives the composite score. It is never stored.
func (s *UserStats) OverallScore() float64 {
	return float64(s.AgendaScore)*0.3 +
		float64(s.RSVPScore)*0.4 +
		float64(100-s.GhostScore)*0.3
}

// HasBadge reports whether the user currently holds the given badge.
func (s *UserStats) HasBadge(t BadgeType) bool {
	for _, b := range s.Badges {
		if b.Type == t {
			return true
		}
	}
	return false
}

// BadgeTypes returns the currently held badge types.
func (s *UserStats) BadgeTypes() []BadgeType {
	out := make([]BadgeType, len(s.Badges))
	for i, b := range s.Badges {
		out[i] = b.Type
	}
	return out
}

// StatsDelta describes an atomic set of counter increments applied by the
// score ledger. The repository applies it as a single upsert so concurrent
// events never clobber each other.
type StatsDelta struct {
	AgendaScore int
	RSVPScore   int
	GhostScore  int

	MeetingsOrganized  int
	MeetingsWithAgenda int
	MeetingsAttended   int
	RSVPsOnTime        int
	RSVPsIgnored       int

	// IncrementStreak bumps the current RSVP streak and raises the best
	// streak if exceeded.
	IncrementStreak bool
	// TouchLastRSVP sets last_rsvp_date to the event time.
	TouchLastRSVP bool
}

// IsZero reports whether the delta changes nothing.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// SlackIdentity maps an email address to a Slack user. It is a cache:
// losing it is safe, re-resolving is idempotent.
type SlackIdentity struct {
	Email       string
	SlackUserID string
	Name        string
	LastSynced  time.Time
}
