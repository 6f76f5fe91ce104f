// Package types provides shared type definitions for the moonshot scanner.
package types

import (
	"math"
	"time"
)

// MarketRecord is a validated market row from the Gamma listing.
// Records are read once, scored and discarded.
type MarketRecord struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Slug      string    `json:"slug"`
	Category  string    `json:"category,omitempty"`
	YesPrice  float64   `json:"yes_price"`
	Volume    float64   `json:"volume"`
	Liquidity float64   `json:"liquidity"`
	EndDate   time.Time `json:"end_date,omitempty"`
	URL       string    `json:"url"`
}

// Multiplier returns the payout multiple of the yes contract (1/price).
// It returns 0 when the price is not positive.
func (m MarketRecord) Multiplier() float64 {
	if m.YesPrice <= 0 {
		return 0
	}
	return 1 / m.YesPrice
}

// HasEndDate reports whether the market carries a resolution date.
func (m MarketRecord) HasEndDate() bool {
	return !m.EndDate.IsZero()
}

// DaysToResolution returns the fractional days between now and the end date.
// Markets without an end date report +Inf.
func (m MarketRecord) DaysToResolution(now time.Time) float64 {
	if !m.HasEndDate() {
		return math.Inf(1)
	}
	return m.EndDate.Sub(now).Hours() / 24
}
