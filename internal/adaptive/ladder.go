package adaptive

import "assessment-service/internal/models"

// NextTier walks the difficulty ladder one step: up on a correct answer,
// down on an incorrect one, clamped at both ends of the scale. Only the
// immediately preceding answer is considered.
func NextTier(current models.Tier, correct bool) models.Tier {
	idx := current.Index()
	if idx < 0 {
		idx = 0
	}
	if correct {
		idx++
	} else {
		idx--
	}
	tiers := models.AllTiers()
	if idx < 0 {
		idx = 0
	}
	if idx >= len(tiers) {
		idx = len(tiers) - 1
	}
	return tiers[idx]
}
