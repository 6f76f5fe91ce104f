package scanner

import (
	"math"
	"strings"

	"github.com/johan/polymarket-moonshot/internal/types"
)

// MaxScore is the upper bound of an edge score.
const MaxScore = 100

// Weights tunes the edge score heuristic. Volume and liquidity each
// contribute cap * pivot / (pivot + x): the full cap at zero, half of it at
// the pivot, falling towards zero for deep markets.
type Weights struct {
	VolumeCap            float64
	VolumePivot          float64
	LiquidityCap         float64
	LiquidityPivot       float64
	DefaultCategoryBonus float64

	// CategoryBonuses maps lowercase category keywords to a bonus.
	CategoryBonuses map[string]float64
}

// DefaultCategoryBonuses rewards categories that draw less attention.
func DefaultCategoryBonuses() map[string]float64 {
	return map[string]float64{
		"obscure":       30,
		"international": 30,
		"minor":         25,
		"weather":       20,
		"science":       20,
		"culture":       15,
		"entertainment": 15,
		"tech":          10,
		"business":      10,
		"economics":     10,
		"other":         10,
		"crypto":        5,
		"sports":        5,
		"politics":      0,
		"elections":     0,
	}
}

// DefaultWeights returns the stock heuristic: 40 volume, 30 liquidity,
// 30 category.
func DefaultWeights() Weights {
	return Weights{
		VolumeCap:            40,
		VolumePivot:          50000,
		LiquidityCap:         30,
		LiquidityPivot:       10000,
		DefaultCategoryBonus: 10,
		CategoryBonuses:      DefaultCategoryBonuses(),
	}
}

// Breakdown holds the three partial scores before clamping.
type Breakdown struct {
	Volume    float64 `json:"volume"`
	Liquidity float64 `json:"liquidity"`
	Category  float64 `json:"category"`
}

// Total returns the clamped, rounded score.
func (b Breakdown) Total() int {
	sum := b.Volume + b.Liquidity + b.Category
	if math.IsNaN(sum) || sum < 0 {
		return 0
	}
	if sum > MaxScore {
		return MaxScore
	}
	return int(math.Round(sum))
}

// Scorer computes edge scores. It is a pure function of its weights.
type Scorer struct {
	w Weights
}

// NewScorer creates a scorer. An empty bonus table selects the defaults.
func NewScorer(w Weights) *Scorer {
	if len(w.CategoryBonuses) == 0 {
		w.CategoryBonuses = DefaultCategoryBonuses()
	}
	lower := make(map[string]float64, len(w.CategoryBonuses))
	for k, v := range w.CategoryBonuses {
		lower[strings.ToLower(strings.TrimSpace(k))] = v
	}
	w.CategoryBonuses = lower
	return &Scorer{w: w}
}

// Score returns the edge score of a market in [0, 100].
func (s *Scorer) Score(m types.MarketRecord) int {
	return s.Breakdown(m).Total()
}

// Breakdown returns the partial scores for a market.
func (s *Scorer) Breakdown(m types.MarketRecord) Breakdown {
	return Breakdown{
		Volume:    inverse(m.Volume, s.w.VolumePivot, s.w.VolumeCap),
		Liquidity: inverse(m.Liquidity, s.w.LiquidityPivot, s.w.LiquidityCap),
		Category:  s.CategoryBonus(m.Category),
	}
}

// CategoryBonus looks up a category. An exact match wins; otherwise the
// largest bonus among keywords contained in the category applies, then the
// default.
func (s *Scorer) CategoryBonus(category string) float64 {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return s.w.DefaultCategoryBonus
	}
	if b, ok := s.w.CategoryBonuses[c]; ok {
		return b
	}
	best, found := 0.0, false
	for k, b := range s.w.CategoryBonuses {
		if k == "" || !strings.Contains(c, k) {
			continue
		}
		if !found || b > best {
			best, found = b, true
		}
	}
	if found {
		return best
	}
	return s.w.DefaultCategoryBonus
}

// inverse saturates at full for x <= 0 and decays towards zero as x grows.
func inverse(x, pivot, full float64) float64 {
	if full <= 0 {
		return 0
	}
	if math.IsNaN(x) || x <= 0 {
		return full
	}
	if pivot <= 0 || math.IsInf(x, 1) {
		return 0
	}
	return full * pivot / (pivot + x)
}
