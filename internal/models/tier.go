package models

type Tier string

const (
	TierVeryEasy  Tier = "very_easy"
	TierEasy      Tier = "easy"
	TierModerate  Tier = "moderate"
	TierDifficult Tier = "difficult"
)

var tierOrder = []Tier{TierVeryEasy, TierEasy, TierModerate, TierDifficult}

func AllTiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

func (t Tier) Valid() bool {
	for _, known := range tierOrder {
		if t == known {
			return true
		}
	}
	return false
}

// Index returns the tier's position on the ordered scale, 0 for very_easy
// through 3 for difficult. Unknown tiers report -1.
func (t Tier) Index() int {
	for i, known := range tierOrder {
		if t == known {
			return i
		}
	}
	return -1
}
