// Package reminder runs the periodic nudging jobs: tiered RSVP reminders,
// the mandatory-attendee check, and room reclaim.
package reminder

import (
	"math"
	"time"

	"github.com/chronokeeper/chronokeeper-backend/internal/domain"
)

// Escalation windows. Tiers are mutually exclusive by construction: each
// combines a reminder count with a disjoint time-to-start band.
const (
	gentleWindowMax = 48 * time.Hour
	gentleWindowMin = 24 * time.Hour

	firmWindowMax = 24 * time.Hour
	firmWindowMin = 12 * time.Hour
	firmCooldown  = 6 * time.Hour

	cheekyWindowMax = 12 * time.Hour
	cheekyCooldown  = 4 * time.Hour
)

// SelectTier picks the reminder tier due for a non-responding attendee, or
// reports false when no reminder is due. A meeting already started never
// gets a reminder.
func SelectTier(a domain.Attendee, untilStart time.Duration, now time.Time) (domain.ReminderTier, bool) {
	if untilStart <= 0 {
		return "", false
	}

	// No recorded send means no cooldown to wait out, even when the
	// reminder count says otherwise (imported rows can carry one without
	// the other).
	sinceLast := time.Duration(math.MaxInt64)
	if a.LastReminded != nil {
		sinceLast = now.Sub(*a.LastReminded)
	}

	switch {
	case a.ReminderCount == 0 &&
		untilStart > gentleWindowMin && untilStart <= gentleWindowMax:
		return domain.TierGentle, true

	case a.ReminderCount == 1 &&
		untilStart > firmWindowMin && untilStart <= firmWindowMax &&
		sinceLast >= firmCooldown:
		return domain.TierFirm, true

	case a.ReminderCount >= 2 &&
		untilStart <= cheekyWindowMax &&
		sinceLast >= cheekyCooldown:
		return domain.TierCheeky, true
	}

	return "", false
}
