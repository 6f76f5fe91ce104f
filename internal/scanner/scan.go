// Package scanner filters, scores and ranks low-priced markets.
package scanner

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/johan/polymarket-moonshot/internal/types"
)

// Opportunity is a qualified market annotated with its score and tier.
type Opportunity struct {
	Market     types.MarketRecord
	Score      int
	Breakdown  Breakdown
	Multiplier float64
	Tier       RiskTier

	// DaysLeft is +Inf when the market has no end date.
	DaysLeft  float64
	Reasoning string
}

// Result is the outcome of one scan.
type Result struct {
	Fetched       int
	Qualified     int
	Opportunities []Opportunity
}

// Empty reports whether no market qualified.
func (r Result) Empty() bool {
	return len(r.Opportunities) == 0
}

// Top returns at most n opportunities from the head of the ranking.
func (r Result) Top(n int) []Opportunity {
	if n <= 0 || n >= len(r.Opportunities) {
		return r.Opportunities
	}
	return r.Opportunities[:n]
}

// Scanner runs filter, score and rank over a market listing.
type Scanner struct {
	criteria Criteria
	scorer   *Scorer
	now      func() time.Time
}

// New creates a scanner.
func New(criteria Criteria, scorer *Scorer) *Scanner {
	if scorer == nil {
		scorer = NewScorer(DefaultWeights())
	}
	return &Scanner{
		criteria: criteria,
		scorer:   scorer,
		now:      time.Now,
	}
}

// WithClock overrides the clock used for days-to-resolution.
func (s *Scanner) WithClock(now func() time.Time) *Scanner {
	s.now = now
	return s
}

// Scan filters the markets and returns them ranked by descending score.
// Equal scores keep their listing order.
func (s *Scanner) Scan(markets []types.MarketRecord) Result {
	now := s.now()
	qualified := Filter(markets, s.criteria, now)

	opps := make([]Opportunity, 0, len(qualified))
	for _, m := range qualified {
		b := s.scorer.Breakdown(m)
		score := b.Total()
		mult := m.Multiplier()
		opps = append(opps, Opportunity{
			Market:     m,
			Score:      score,
			Breakdown:  b,
			Multiplier: mult,
			Tier:       Classify(mult),
			DaysLeft:   m.DaysToResolution(now),
			Reasoning:  Reasoning(score, m.Volume),
		})
	}

	slices.SortStableFunc(opps, func(a, b Opportunity) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return Result{
		Fetched:       len(markets),
		Qualified:     len(qualified),
		Opportunities: opps,
	}
}

// Reasoning labels an opportunity from its score and volume.
func Reasoning(score int, volume float64) string {
	var parts []string
	switch {
	case score >= 70:
		parts = append(parts, "HIGH EDGE")
	case score >= 50:
		parts = append(parts, "MODERATE EDGE")
	}
	if volume < 100000 {
		parts = append(parts, "low volume (less efficient)")
	}
	if len(parts) == 0 {
		return "standard opportunity"
	}
	return strings.Join(parts, " | ")
}
