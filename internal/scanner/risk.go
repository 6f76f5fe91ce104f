package scanner

// RiskTier buckets a contract by its payout multiplier.
type RiskTier string

const (
	TierYOLO     RiskTier = "YOLO"
	TierMoonshot RiskTier = "MOONSHOT"
	TierLongshot RiskTier = "LONGSHOT"
	TierValue    RiskTier = "VALUE"

	// TierBelowValue marks multipliers under the VALUE floor. The max price
	// filter normally keeps these out of a scan.
	TierBelowValue RiskTier = "BELOW_VALUE"
)

// TierInfo describes one tier: its inclusive multiplier floor, a short
// report tag and a one-line description.
type TierInfo struct {
	Tier        RiskTier
	Floor       float64
	Tag         string
	Description string
}

// tiers is ordered by descending floor.
var tiers = [...]TierInfo{
	{TierYOLO, 1000, "[YOLO]", "1000x+ potential, mass extinction event odds"},
	{TierMoonshot, 100, "[MOON]", "100-1000x, genuine longshot"},
	{TierLongshot, 20, "[LONG]", "20-100x, unlikely but possible"},
	{TierValue, 5, "[VAL] ", "5-20x, underpriced favorite upset"},
}

var belowValue = TierInfo{TierBelowValue, 0, "[LOW] ", "under 5x, outside the moonshot range"}

// Tiers returns the tier table, highest floor first.
func Tiers() []TierInfo {
	out := make([]TierInfo, len(tiers))
	copy(out, tiers[:])
	return out
}

// Classify maps a payout multiplier to its tier. Floors are inclusive.
func Classify(multiplier float64) RiskTier {
	for _, t := range tiers {
		if multiplier >= t.Floor {
			return t.Tier
		}
	}
	return TierBelowValue
}

// Info returns the table entry for a tier.
func (t RiskTier) Info() TierInfo {
	for _, info := range tiers {
		if info.Tier == t {
			return info
		}
	}
	return belowValue
}

// Tag returns the fixed-width report tag for the tier.
func (t RiskTier) Tag() string {
	return t.Info().Tag
}
