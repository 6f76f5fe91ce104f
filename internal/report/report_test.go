package report

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/johan/polymarket-moonshot/internal/planner"
	"github.com/johan/polymarket-moonshot/internal/scanner"
	"github.com/johan/polymarket-moonshot/internal/types"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testPlan(t *testing.T) planner.StagePlan {
	t.Helper()
	plan, err := planner.Plan(50, 100000, planner.Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}

func testResult(markets ...types.MarketRecord) scanner.Result {
	s := scanner.New(scanner.Criteria{MaxPrice: 0.05}, nil).WithClock(func() time.Time { return testNow })
	return s.Scan(markets)
}

func meteorMarket() types.MarketRecord {
	return types.MarketRecord{
		ID:        "512340",
		Question:  "Will a meteor larger than 1km strike Earth before 2027?",
		Slug:      "meteor-1km-2027",
		Category:  "other",
		YesPrice:  0.01,
		Volume:    45000,
		Liquidity: 20000,
		EndDate:   testNow.Add(30 * 24 * time.Hour),
		URL:       "https://polymarket.com/event/meteor-strikes",
	}
}

func TestText(t *testing.T) {
	rep := New(testPlan(t), testResult(meteorMarket()), 10, 10)

	var buf bytes.Buffer
	if err := NewRenderer(0).Text(&buf, rep); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := buf.String()

	want := []string{
		"MOONSHOT TRACKER - $50 -> $100,000 CHALLENGE",
		"Starting: $50.00",
		"Target: $100,000.00",
		"Required: 2,000x total",
		"Stages: 4",
		"Per stage: 6.7x",
		"[>] Stage 1: $50.00 -> $334.37 (6.7x)",
		"[ ] Stage 2: $334.37 ->",
		"-> $100,000.00 (6.7x)",
		"SCAN: 1 markets fetched, 1 qualified",
		"TOP OPPORTUNITIES (by edge score)",
		" 1. [MOON] $0.0100 -> 100x",
		"Edge: 41/100 | Vol: $45,000 | 30d | low volume (less efficient)",
		"Will a meteor larger than 1km strike Earth before 2027?",
		"https://polymarket.com/event/meteor-strikes",
		"RECOMMENDED POSITIONS FOR STAGE 1 ($50 -> $334)",
		"TOTAL POTENTIAL: $5,000.00 (if ONE hits)",
		"You're betting on 1 longshots",
		"If none hit, you lose $50.00",
	}
	for _, s := range want {
		if !strings.Contains(out, s) {
			t.Errorf("Text() missing %q\n%s", s, out)
		}
	}
	if strings.Contains(out, "[X]") {
		t.Errorf("Text() marked a stage completed")
	}
	if strings.Count(out, "[>]") != 1 {
		t.Errorf("Text() should mark exactly one current stage")
	}
}

func TestText_Empty(t *testing.T) {
	m := meteorMarket()
	m.YesPrice = 0.5
	rep := New(testPlan(t), testResult(m), 10, 10)

	var buf bytes.Buffer
	if err := NewRenderer(0).Text(&buf, rep); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "No opportunities found matching criteria.") {
		t.Errorf("Text() missing empty notice\n%s", out)
	}
	if !strings.Contains(out, "STAGE BREAKDOWN") {
		t.Errorf("Text() should still render the plan")
	}
	for _, s := range []string{"TOP OPPORTUNITIES", "RECOMMENDED POSITIONS", "REALITY CHECK"} {
		if strings.Contains(out, s) {
			t.Errorf("Text() rendered %q with no opportunities", s)
		}
	}
}

func TestText_TopNAndTruncation(t *testing.T) {
	var markets []types.MarketRecord
	for i := 0; i < 5; i++ {
		m := meteorMarket()
		m.ID = string(rune('a' + i))
		m.Question = strings.Repeat("x", 80) + "TAIL"
		markets = append(markets, m)
	}
	rep := New(testPlan(t), testResult(markets...), 3, 10)

	var buf bytes.Buffer
	if err := NewRenderer(20).Text(&buf, rep); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, " 3. [MOON]") || strings.Contains(out, " 4. [MOON]") {
		t.Errorf("Text() should list exactly 3 opportunities\n%s", out)
	}
	if strings.Contains(out, "TAIL") {
		t.Errorf("Text() did not truncate long questions")
	}
	if !strings.Contains(out, "    "+strings.Repeat("x", 20)+"\n") {
		t.Errorf("Text() question not cut to 20 runes")
	}
}

func TestRender(t *testing.T) {
	res := testResult(meteorMarket())
	out := Render(testPlan(t), res.Opportunities, 10)
	if !strings.Contains(out, "Edge: 41/100") {
		t.Errorf("Render() missing opportunity\n%s", out)
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{money(50), "$50.00"},
		{money(334.3701), "$334.37"},
		{money(1234567.891), "$1,234,567.89"},
		{money(0.005), "$0.01"},
		{money(1e21), "$1,000,000,000,000,000,000,000.00"},
		{wholeMoney(45000), "$45,000"},
		{wholeMoney(999.5), "$1,000"},
		{wholeMoney(1e21), "$1,000,000,000,000,000,000,000"},
		{multiple(2000), "2,000x"},
		{multiple(2e19), "20,000,000,000,000,000,000x"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if got := multiple(math.MaxFloat64); !strings.HasPrefix(got, "179,769,313,486,231,570,") || !strings.HasSuffix(got, ",000x") {
		t.Errorf("multiple(MaxFloat64) = %q", got)
	}
}

func TestRender_HugeTarget(t *testing.T) {
	plan, err := planner.Plan(50, 1e21, planner.Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	out := Render(plan, nil, 10)

	for _, want := range []string{
		"MOONSHOT TRACKER - $50 -> $1,000,000,000,000,000,000,000 CHALLENGE",
		"Target: $1,000,000,000,000,000,000,000.00",
		"Required: 20,000,000,000,000,000,000x total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "$-") || strings.Contains(out, "-9,223") {
		t.Errorf("Render() printed an overflowed figure\n%s", out)
	}
}

func TestJSON(t *testing.T) {
	undated := meteorMarket()
	undated.ID = "512341"
	undated.EndDate = time.Time{}

	rep := New(testPlan(t), testResult(meteorMarket(), undated), 10, 10)
	rep.RunID = "run-1"

	var buf bytes.Buffer
	if err := NewRenderer(0).JSON(&buf, rep); err != nil {
		t.Fatalf("JSON() error = %v", err)
	}

	var got struct {
		RunID string `json:"run_id"`
		Plan  struct {
			StageCount int `json:"stage_count"`
			Stages     []struct {
				Status string `json:"status"`
			} `json:"stages"`
		} `json:"plan"`
		Opportunities []struct {
			Market struct {
				ID      string `json:"id"`
				EndDate string `json:"end_date"`
			} `json:"market"`
			Tier     string   `json:"risk_tier"`
			DaysLeft *float64 `json:"days_left"`
		} `json:"opportunities"`
		Positions []struct {
			Allocation string `json:"allocation"`
		} `json:"positions"`
		TotalPotential string `json:"total_potential"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("report is not valid JSON: %v\n%s", err, buf.String())
	}

	if got.RunID != "run-1" {
		t.Errorf("run_id = %q", got.RunID)
	}
	if got.Plan.StageCount != 4 || got.Plan.Stages[0].Status != "CURRENT" {
		t.Errorf("plan = %+v", got.Plan)
	}
	if len(got.Opportunities) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(got.Opportunities))
	}
	first, second := got.Opportunities[0], got.Opportunities[1]
	if first.Tier != "MOONSHOT" || first.DaysLeft == nil || first.Market.EndDate == "" {
		t.Errorf("dated opportunity = %+v", first)
	}
	if second.DaysLeft != nil || second.Market.EndDate != "" {
		t.Errorf("undated opportunity should have null days and no end date: %+v", second)
	}
	if len(got.Positions) != 2 || got.Positions[0].Allocation != "25.00" {
		t.Errorf("positions = %+v", got.Positions)
	}
	if got.TotalPotential != "5000.00" {
		t.Errorf("total_potential = %q, want 5000.00", got.TotalPotential)
	}
}

func TestMarketsTable(t *testing.T) {
	res := testResult(meteorMarket())

	var buf bytes.Buffer
	if err := NewRenderer(30).MarketsTable(&buf, res.Opportunities); err != nil {
		t.Fatalf("MarketsTable() error = %v", err)
	}
	out := buf.String()
	for _, s := range []string{"MOONSHOT", "$0.0100", "100x", "41", "$45,000", "30d"} {
		if !strings.Contains(out, s) {
			t.Errorf("MarketsTable() missing %q\n%s", s, out)
		}
	}

	buf.Reset()
	if err := NewRenderer(30).MarketsTable(&buf, nil); err != nil {
		t.Fatalf("MarketsTable() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No opportunities found") {
		t.Errorf("MarketsTable(nil) = %q", buf.String())
	}
}

func TestMarketsJSON(t *testing.T) {
	res := testResult(meteorMarket())

	var buf bytes.Buffer
	if err := NewRenderer(0).MarketsJSON(&buf, res.Opportunities); err != nil {
		t.Fatalf("MarketsJSON() error = %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0]["edge_score"] != float64(41) {
		t.Errorf("MarketsJSON() = %v", got)
	}
}
