package scanner

import (
	"math"
	"testing"
	"time"

	"github.com/johan/polymarket-moonshot/internal/types"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func market(id string, price, volume, liquidity float64, category string) types.MarketRecord {
	return types.MarketRecord{
		ID:        id,
		Question:  "Question " + id,
		Slug:      "slug-" + id,
		Category:  category,
		YesPrice:  price,
		Volume:    volume,
		Liquidity: liquidity,
		EndDate:   testNow.Add(30 * 24 * time.Hour),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		multiplier float64
		want       RiskTier
	}{
		{5000, TierYOLO},
		{1000, TierYOLO},
		{999.99, TierMoonshot},
		{100, TierMoonshot},
		{99.9, TierLongshot},
		{20, TierLongshot},
		{19.99, TierValue},
		{5, TierValue},
		{4.99, TierBelowValue},
		{1, TierBelowValue},
		{0, TierBelowValue},
	}

	for _, tt := range tests {
		if got := Classify(tt.multiplier); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.multiplier, got, tt.want)
		}
	}
}

func TestClassify_FromPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  RiskTier
	}{
		{0.001, TierYOLO},
		{0.01, TierMoonshot},
		{0.05, TierLongshot},
		{0.2, TierValue},
	}

	for _, tt := range tests {
		m := types.MarketRecord{YesPrice: tt.price}
		if got := Classify(m.Multiplier()); got != tt.want {
			t.Errorf("Classify(1/%v) = %s, want %s", tt.price, got, tt.want)
		}
	}
}

func TestTierInfo(t *testing.T) {
	if TierMoonshot.Tag() != "[MOON]" {
		t.Errorf("TierMoonshot.Tag() = %q", TierMoonshot.Tag())
	}
	if TierBelowValue.Info().Floor != 0 {
		t.Errorf("TierBelowValue floor = %v, want 0", TierBelowValue.Info().Floor)
	}
	all := Tiers()
	for i := 1; i < len(all); i++ {
		if all[i].Floor >= all[i-1].Floor {
			t.Errorf("Tiers() not ordered by descending floor at %d", i)
		}
	}
}

func TestFilter(t *testing.T) {
	markets := []types.MarketRecord{
		market("a", 0.01, 45000, 20000, "other"),
		market("b", 0, 90000, 100, "other"),
		market("c", -0.02, 90000, 100, "other"),
		market("d", 0.06, 90000, 100, "other"),
		market("e", 0.05, 60000, 100, "other"),
		market("f", math.NaN(), 60000, 100, "other"),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "unfiltered volume", criteria: Criteria{MaxPrice: 0.05}, want: []string{"a", "e"}},
		{name: "volume floor", criteria: Criteria{MaxPrice: 0.05, MinVolume: 50000}, want: []string{"e"}},
		{name: "tight price", criteria: Criteria{MaxPrice: 0.02}, want: []string{"a"}},
		{name: "loose price", criteria: Criteria{MaxPrice: 1}, want: []string{"a", "d", "e"}},
		{name: "nothing", criteria: Criteria{MaxPrice: 0.005}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(markets, tt.criteria, testNow)
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() returned %d markets, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Filter()[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
				p := got[i].YesPrice
				if p <= 0 || p > tt.criteria.MaxPrice || got[i].Volume < tt.criteria.MinVolume {
					t.Errorf("Filter() returned out-of-range market %s", got[i].ID)
				}
			}
		})
	}
}

func TestFilter_MinDays(t *testing.T) {
	soon := market("soon", 0.01, 1000, 100, "other")
	soon.EndDate = testNow.Add(12 * time.Hour)
	later := market("later", 0.01, 1000, 100, "other")
	undated := market("undated", 0.01, 1000, 100, "other")
	undated.EndDate = time.Time{}

	got := Filter([]types.MarketRecord{soon, later, undated}, Criteria{MaxPrice: 0.05, MinDays: 1}, testNow)
	if len(got) != 2 || got[0].ID != "later" || got[1].ID != "undated" {
		t.Errorf("Filter() with MinDays = %v", got)
	}

	got = Filter([]types.MarketRecord{soon}, Criteria{MaxPrice: 0.05}, testNow)
	if len(got) != 1 {
		t.Errorf("Filter() without MinDays dropped a market")
	}
}

func TestScore_MidVolumeMarket(t *testing.T) {
	s := NewScorer(DefaultWeights())
	m := market("x", 0.01, 45000, 20000, "other")

	b := s.Breakdown(m)
	if math.Abs(b.Volume-40*50000.0/95000.0) > 1e-9 {
		t.Errorf("volume component = %v", b.Volume)
	}
	if math.Abs(b.Liquidity-10) > 1e-9 {
		t.Errorf("liquidity component = %v, want 10", b.Liquidity)
	}
	if b.Category != 10 {
		t.Errorf("category component = %v, want 10", b.Category)
	}
	if got := s.Score(m); got != 41 {
		t.Errorf("Score() = %d, want 41", got)
	}
}

func TestScore_ZeroSaturates(t *testing.T) {
	s := NewScorer(DefaultWeights())
	zero := market("z", 0.01, 0, 0, "politics")
	b := s.Breakdown(zero)
	if b.Volume != 40 || b.Liquidity != 30 {
		t.Errorf("zero volume/liquidity breakdown = %+v, want caps", b)
	}
	if got := s.Score(zero); got != 70 {
		t.Errorf("Score() = %d, want 70", got)
	}
}

func TestScore_Monotonic(t *testing.T) {
	s := NewScorer(DefaultWeights())
	levels := []float64{0, 1, 10, 500, 10000, 50000, 1e6, 1e9, math.MaxFloat64}

	for _, cat := range []string{"other", "international", "politics", "unknown thing"} {
		prev := math.MaxInt
		for _, v := range levels {
			got := s.Score(market("m", 0.01, v, v, cat))
			if got > prev {
				t.Errorf("category %q: score rose from %d to %d at volume/liquidity %v", cat, prev, got, v)
			}
			if got < 0 || got > MaxScore {
				t.Errorf("category %q: score %d out of range at %v", cat, got, v)
			}
			prev = got
		}
	}

	base := market("m", 0.01, 0, 5000, "other")
	for _, v := range levels[1:] {
		higher := base
		higher.Volume = v
		if s.Score(higher) > s.Score(base) {
			t.Errorf("positive volume %v scored above zero volume", v)
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	w := DefaultWeights()
	w.VolumeCap = 80
	w.LiquidityCap = 80
	w.CategoryBonuses = map[string]float64{"doom": 90, "gloom": -500}
	s := NewScorer(w)

	if got := s.Score(market("hi", 0.01, 0, 0, "Doom")); got != MaxScore {
		t.Errorf("Score() = %d, want clamp to %d", got, MaxScore)
	}
	if got := s.Score(market("lo", 0.01, math.Inf(1), math.Inf(1), "gloom")); got != 0 {
		t.Errorf("Score() = %d, want clamp to 0", got)
	}
}

func TestCategoryBonus(t *testing.T) {
	s := NewScorer(DefaultWeights())
	tests := []struct {
		category string
		want     float64
	}{
		{"International", 30},
		{"  science ", 20},
		{"Minor league soccer", 25},
		{"International weather", 30},
		{"Something new", 10},
		{"", 10},
	}

	for _, tt := range tests {
		if got := s.CategoryBonus(tt.category); got != tt.want {
			t.Errorf("CategoryBonus(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestScan(t *testing.T) {
	markets := []types.MarketRecord{
		market("deep", 0.02, 5e6, 5e5, "politics"),
		market("tie-1", 0.01, 45000, 20000, "other"),
		market("expensive", 0.5, 0, 0, "obscure"),
		market("tie-2", 0.04, 45000, 20000, "other"),
		market("thin", 0.001, 0, 0, "international"),
	}

	res := New(Criteria{MaxPrice: 0.05}, nil).WithClock(func() time.Time { return testNow }).Scan(markets)

	if res.Fetched != 5 || res.Qualified != 4 {
		t.Errorf("Fetched/Qualified = %d/%d, want 5/4", res.Fetched, res.Qualified)
	}

	want := []string{"thin", "tie-1", "tie-2", "deep"}
	if len(res.Opportunities) != len(want) {
		t.Fatalf("got %d opportunities, want %d", len(res.Opportunities), len(want))
	}
	for i, id := range want {
		if res.Opportunities[i].Market.ID != id {
			t.Errorf("Opportunities[%d] = %s, want %s", i, res.Opportunities[i].Market.ID, id)
		}
	}

	top := res.Opportunities[0]
	if top.Score != 100 {
		t.Errorf("top score = %d, want 100", top.Score)
	}
	if top.Tier != TierYOLO {
		t.Errorf("top tier = %s, want YOLO", top.Tier)
	}
	if math.Abs(top.DaysLeft-30) > 1e-9 {
		t.Errorf("DaysLeft = %v, want 30", top.DaysLeft)
	}
	if top.Reasoning != "HIGH EDGE | low volume (less efficient)" {
		t.Errorf("Reasoning = %q", top.Reasoning)
	}
	if res.Opportunities[1].Tier != TierMoonshot {
		t.Errorf("1/0.01 tier = %s, want MOONSHOT", res.Opportunities[1].Tier)
	}

	if got := res.Top(2); len(got) != 2 {
		t.Errorf("Top(2) returned %d", len(got))
	}
	if got := res.Top(50); len(got) != 4 {
		t.Errorf("Top(50) returned %d", len(got))
	}
}

func TestScan_Empty(t *testing.T) {
	res := New(Criteria{MaxPrice: 0.05, MinVolume: 50000}, nil).Scan([]types.MarketRecord{
		market("mid-volume", 0.01, 45000, 20000, "other"),
	})
	if !res.Empty() {
		t.Errorf("Empty() = false, want true")
	}
	if res.Fetched != 1 || res.Qualified != 0 {
		t.Errorf("Fetched/Qualified = %d/%d, want 1/0", res.Fetched, res.Qualified)
	}
}

func TestReasoning(t *testing.T) {
	tests := []struct {
		score  int
		volume float64
		want   string
	}{
		{75, 500000, "HIGH EDGE"},
		{55, 50000, "MODERATE EDGE | low volume (less efficient)"},
		{30, 50000, "low volume (less efficient)"},
		{30, 500000, "standard opportunity"},
	}
	for _, tt := range tests {
		if got := Reasoning(tt.score, tt.volume); got != tt.want {
			t.Errorf("Reasoning(%d, %v) = %q, want %q", tt.score, tt.volume, got, tt.want)
		}
	}
}
