package agenda

import "github.com/chronokeeper/chronokeeper-backend/internal/domain"

// Section length tiers. A section is "substantial" above the high tier and
// "minimal" above the low tier; anything shorter earns nothing.
const (
	sectionHighTier = 20
	sectionLowTier  = 10
)

// ScoreSections computes the registration-path quality score (0–100) from
// parsed agenda sections using fixed length tiers:
//
//	purpose, outcomes: 30 / 15 / 0
//	decisions:         25 / 12 / 0
//	prereads:          15 / 0
//
// This intentionally differs from Analyze: the tiered score is the cheap
// check run at registration, the weighted heuristic is the advisory one.
// Both are part of the observable contract and must stay distinct.
func ScoreSections(a domain.Agenda) int {
	score := 0

	switch {
	case len(a.Purpose) > sectionHighTier:
		score += 30
	case len(a.Purpose) > sectionLowTier:
		score += 15
	}

	switch {
	case len(a.Outcomes) > sectionHighTier:
		score += 30
	case len(a.Outcomes) > sectionLowTier:
		score += 15
	}

	switch {
	case len(a.Decisions) > sectionHighTier:
		score += 25
	case len(a.Decisions) > sectionLowTier:
		score += 12
	}

	if len(a.Prereads) > sectionLowTier {
		score += 15
	}

	return score
}
