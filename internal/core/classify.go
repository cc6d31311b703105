package core

// Tier is a concentration severity level, 1 (lowest) through 6.
type Tier int

const (
	TierVeryLow Tier = iota + 1
	TierLow
	TierModerate
	TierHigh
	TierVeryHigh
	TierExtreme
)

// Upper bounds (inclusive) for each tier, in ppm. Anything above the last
// bound is TierExtreme.
var tierBounds = []struct {
	max  float64
	tier Tier
}{
	{0.5, TierVeryLow},
	{1, TierLow},
	{10, TierModerate},
	{50, TierHigh},
	{500, TierVeryHigh},
}

// Classify maps a concentration to its severity tier id.
// Negative values land in tier 1; NaN lands in tier 6.
func Classify(ppm float64) int {
	return int(ClassifyTier(ppm))
}

// ClassifyTier is Classify returning the typed tier.
func ClassifyTier(ppm float64) Tier {
	for _, b := range tierBounds {
		if ppm <= b.max {
			return b.tier
		}
	}
	return TierExtreme
}

// String returns the tier label.
func (t Tier) String() string {
	switch t {
	case TierVeryLow:
		return "very low"
	case TierLow:
		return "low"
	case TierModerate:
		return "moderate"
	case TierHigh:
		return "high"
	case TierVeryHigh:
		return "very high"
	case TierExtreme:
		return "extremely dangerous"
	default:
		return "unknown"
	}
}
