package scanner

import (
	"time"

	"github.com/johan/polymarket-moonshot/internal/types"
)

// Criteria selects which markets qualify as opportunities.
type Criteria struct {
	MaxPrice  float64
	MinVolume float64

	// MinDays drops markets resolving sooner than this many days.
	// Zero disables the check; markets without an end date always pass.
	MinDays float64
}

// Qualifies reports whether a single market meets the criteria at time now.
func (c Criteria) Qualifies(m types.MarketRecord, now time.Time) bool {
	// Written positively so NaN fields never qualify.
	if !(m.YesPrice > 0 && m.YesPrice <= c.MaxPrice) {
		return false
	}
	if !(m.Volume >= c.MinVolume) {
		return false
	}
	if c.MinDays > 0 && m.HasEndDate() && m.DaysToResolution(now) < c.MinDays {
		return false
	}
	return true
}

// Filter returns the markets that qualify, preserving input order.
func Filter(markets []types.MarketRecord, c Criteria, now time.Time) []types.MarketRecord {
	var out []types.MarketRecord
	for _, m := range markets {
		if c.Qualifies(m, now) {
			out = append(out, m)
		}
	}
	return out
}
