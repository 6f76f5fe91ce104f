// Package report renders a stage plan and ranked opportunities as text or
// JSON.
package report

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/johan/polymarket-moonshot/internal/planner"
	"github.com/johan/polymarket-moonshot/internal/scanner"
)

// DefaultQuestionWidth is the number of runes of question text shown per
// opportunity.
const DefaultQuestionWidth = 65

// Report is everything one run renders.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Plan        planner.StagePlan
	Result      scanner.Result
	TopN        int
	Positions   []planner.Position
}

// New assembles a report and sizes stage 1 positions from the ranked
// opportunities.
func New(plan planner.StagePlan, result scanner.Result, topN, maxPositions int) Report {
	return Report{
		GeneratedAt: time.Now().UTC(),
		Plan:        plan,
		Result:      result,
		TopN:        topN,
		Positions:   planner.RecommendPositions(result.Opportunities, plan.StartCapital, plan.PerStage, maxPositions),
	}
}

// Shown returns the opportunities the report lists.
func (r Report) Shown() []scanner.Opportunity {
	return r.Result.Top(r.TopN)
}

// Render formats the plan and the top n opportunities as text.
func Render(plan planner.StagePlan, opps []scanner.Opportunity, topN int) string {
	rep := New(plan, scanner.Result{Fetched: len(opps), Qualified: len(opps), Opportunities: opps}, topN, planner.DefaultMaxPositions)
	var sb strings.Builder
	// strings.Builder never fails a write.
	_ = NewRenderer(DefaultQuestionWidth).Text(&sb, rep)
	return sb.String()
}

func money(x float64) string {
	return "$" + commas(x, 2)
}

func wholeMoney(x float64) string {
	return "$" + commas(x, 0)
}

func multiple(x float64) string {
	return commas(x, 0) + "x"
}

// commas rounds x to places decimals and groups the integer digits in
// thousands. It works on big integers so any finite float64 formats.
func commas(x float64, places int32) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Sprint(x)
	}
	d := decimal.NewFromFloat(x).Round(places)
	whole := d.Truncate(0)

	s := humanize.BigComma(whole.BigInt())
	if d.IsNegative() && whole.IsZero() {
		s = "-" + s
	}
	if places > 0 {
		// "0.37" -> ".37"
		s += d.Sub(whole).Abs().StringFixed(places)[1:]
	}
	return s
}

func days(d float64) string {
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return "n/a"
	}
	return fmt.Sprintf("%.0fd", d)
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}
