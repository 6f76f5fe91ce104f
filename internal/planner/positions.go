package planner

import (
	"github.com/johan/polymarket-moonshot/internal/scanner"
	"github.com/johan/polymarket-moonshot/internal/types"
)

// DefaultMaxPositions bounds how many contracts a stage is spread across.
const DefaultMaxPositions = 10

// Position is a suggested buy of the yes side for the current stage.
type Position struct {
	Market            types.MarketRecord `json:"market"`
	Side              string             `json:"side"`
	Price             float64            `json:"price"`
	Allocation        float64            `json:"allocation"`
	Shares            float64            `json:"shares"`
	PotentialValue    float64            `json:"potential_value"`
	PotentialMultiple float64            `json:"potential_multiple"`
	Score             int                `json:"edge_score"`
	Tier              scanner.RiskTier   `json:"risk_tier"`
}

// RecommendPositions splits capital evenly across the ranked opportunities
// that could deliver at least half the per-stage multiplier. When none can,
// the top-ranked ones are used instead. Each winning share pays 1.
func RecommendPositions(opps []scanner.Opportunity, capital, perStage float64, maxPositions int) []Position {
	if len(opps) == 0 || capital <= 0 {
		return nil
	}
	if maxPositions <= 0 {
		maxPositions = DefaultMaxPositions
	}

	var viable []scanner.Opportunity
	for _, o := range opps {
		if o.Multiplier >= perStage*0.5 {
			viable = append(viable, o)
		}
	}
	if len(viable) == 0 {
		viable = opps
	}
	if len(viable) > maxPositions {
		viable = viable[:maxPositions]
	}

	alloc := capital / float64(len(viable))
	positions := make([]Position, 0, len(viable))
	for _, o := range viable {
		price := o.Market.YesPrice
		shares := alloc / price
		positions = append(positions, Position{
			Market:            o.Market,
			Side:              "YES",
			Price:             price,
			Allocation:        alloc,
			Shares:            shares,
			PotentialValue:    shares,
			PotentialMultiple: shares / alloc,
			Score:             o.Score,
			Tier:              o.Tier,
		})
	}
	return positions
}

// TotalPotential sums the payout of every position. Only one is expected
// to hit.
func TotalPotential(positions []Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.PotentialValue
	}
	return total
}

// TotalAllocated sums the capital committed across positions.
func TotalAllocated(positions []Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.Allocation
	}
	return total
}
