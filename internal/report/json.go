package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/johan/polymarket-moonshot/internal/planner"
	"github.com/johan/polymarket-moonshot/internal/scanner"
	"github.com/johan/polymarket-moonshot/internal/types"
)

type jsonMarket struct {
	ID        string  `json:"id"`
	Question  string  `json:"question"`
	Slug      string  `json:"slug"`
	Category  string  `json:"category,omitempty"`
	YesPrice  float64 `json:"yes_price"`
	Volume    float64 `json:"volume"`
	Liquidity float64 `json:"liquidity"`
	EndDate   string  `json:"end_date,omitempty"`
	URL       string  `json:"url,omitempty"`
}

type jsonOpportunity struct {
	Market     jsonMarket        `json:"market"`
	Score      int               `json:"edge_score"`
	Breakdown  scanner.Breakdown `json:"breakdown"`
	Multiplier float64           `json:"multiplier"`
	Tier       scanner.RiskTier  `json:"risk_tier"`
	// DaysLeft is null when the market has no end date.
	DaysLeft  *float64 `json:"days_left"`
	Reasoning string   `json:"reasoning"`
}

type jsonPosition struct {
	MarketID          string           `json:"market_id"`
	Question          string           `json:"question"`
	URL               string           `json:"url,omitempty"`
	Side              string           `json:"side"`
	Price             float64          `json:"price"`
	Allocation        string           `json:"allocation"`
	Shares            float64          `json:"shares"`
	PotentialValue    string           `json:"potential_value"`
	PotentialMultiple float64          `json:"potential_multiple"`
	Score             int              `json:"edge_score"`
	Tier              scanner.RiskTier `json:"risk_tier"`
}

type jsonReport struct {
	RunID          string            `json:"run_id,omitempty"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Plan           planner.StagePlan `json:"plan"`
	Fetched        int               `json:"fetched"`
	Qualified      int               `json:"qualified"`
	Opportunities  []jsonOpportunity `json:"opportunities"`
	Positions      []jsonPosition    `json:"positions"`
	TotalPotential string            `json:"total_potential"`
}

// JSON writes the report as one indented JSON document.
func (r *Renderer) JSON(w io.Writer, rep Report) error {
	out := jsonReport{
		RunID:          rep.RunID,
		GeneratedAt:    rep.GeneratedAt,
		Plan:           rep.Plan,
		Fetched:        rep.Result.Fetched,
		Qualified:      rep.Result.Qualified,
		Opportunities:  toJSONOpportunities(rep.Shown()),
		Positions:      make([]jsonPosition, 0, len(rep.Positions)),
		TotalPotential: planner.Cents(planner.TotalPotential(rep.Positions)).StringFixed(2),
	}
	for _, p := range rep.Positions {
		out.Positions = append(out.Positions, jsonPosition{
			MarketID:          p.Market.ID,
			Question:          p.Market.Question,
			URL:               p.Market.URL,
			Side:              p.Side,
			Price:             p.Price,
			Allocation:        planner.Cents(p.Allocation).StringFixed(2),
			Shares:            p.Shares,
			PotentialValue:    planner.Cents(p.PotentialValue).StringFixed(2),
			PotentialMultiple: p.PotentialMultiple,
			Score:             p.Score,
			Tier:              p.Tier,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// MarketsJSON writes ranked opportunities without a plan.
func (r *Renderer) MarketsJSON(w io.Writer, opps []scanner.Opportunity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSONOpportunities(opps)); err != nil {
		return fmt.Errorf("encode markets: %w", err)
	}
	return nil
}

func toJSONOpportunities(opps []scanner.Opportunity) []jsonOpportunity {
	out := make([]jsonOpportunity, 0, len(opps))
	for _, o := range opps {
		jo := jsonOpportunity{
			Market:     toJSONMarket(o.Market),
			Score:      o.Score,
			Breakdown:  o.Breakdown,
			Multiplier: o.Multiplier,
			Tier:       o.Tier,
			Reasoning:  o.Reasoning,
		}
		if !math.IsInf(o.DaysLeft, 0) && !math.IsNaN(o.DaysLeft) {
			d := o.DaysLeft
			jo.DaysLeft = &d
		}
		out = append(out, jo)
	}
	return out
}

func toJSONMarket(m types.MarketRecord) jsonMarket {
	jm := jsonMarket{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      m.Slug,
		Category:  m.Category,
		YesPrice:  m.YesPrice,
		Volume:    m.Volume,
		Liquidity: m.Liquidity,
		URL:       m.URL,
	}
	if m.HasEndDate() {
		jm.EndDate = m.EndDate.UTC().Format(time.RFC3339)
	}
	return jm
}
