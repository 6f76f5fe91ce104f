package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/johan/polymarket-moonshot/internal/planner"
	"github.com/johan/polymarket-moonshot/internal/scanner"
)

const ruleWidth = 70

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

// Renderer writes reports.
type Renderer struct {
	questionWidth int
}

// NewRenderer creates a renderer. A non-positive width selects
// DefaultQuestionWidth.
func NewRenderer(questionWidth int) *Renderer {
	if questionWidth <= 0 {
		questionWidth = DefaultQuestionWidth
	}
	return &Renderer{questionWidth: questionWidth}
}

// Text writes the human-readable report.
func (r *Renderer) Text(w io.Writer, rep Report) error {
	bw := bufio.NewWriter(w)
	r.writeHeader(bw, rep.Plan)
	r.writeStages(bw, rep.Plan)

	fmt.Fprintf(bw, "\nSCAN: %d markets fetched, %d qualified\n", rep.Result.Fetched, rep.Result.Qualified)

	if rep.Result.Empty() {
		fmt.Fprintln(bw, "\nNo opportunities found matching criteria.")
		fmt.Fprintln(bw, "Try adjusting --max-price or --min-volume")
		return bw.Flush()
	}

	r.writeOpportunities(bw, rep.Shown())
	if err := r.writePositions(bw, rep.Plan, rep.Positions); err != nil {
		return err
	}
	r.writeRealityCheck(bw, rep.Plan, rep.Positions)
	return bw.Flush()
}

func (r *Renderer) writeHeader(w io.Writer, p planner.StagePlan) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "MOONSHOT TRACKER - %s -> %s CHALLENGE\n", wholeMoney(p.StartCapital), wholeMoney(p.TargetCapital))
	fmt.Fprintln(w, heavyRule)

	fmt.Fprintln(w, "\nCOMPOUND STRATEGY")
	fmt.Fprintf(w, "   Starting: %s\n", money(p.StartCapital))
	fmt.Fprintf(w, "   Target: %s\n", money(p.TargetCapital))
	fmt.Fprintf(w, "   Required: %s total\n", multiple(p.TotalMultiplier))
	fmt.Fprintf(w, "   Stages: %d\n", p.StageCount)
	fmt.Fprintf(w, "   Per stage: %.1fx\n", p.PerStage)
}

func (r *Renderer) writeStages(w io.Writer, p planner.StagePlan) {
	fmt.Fprintln(w, "\nSTAGE BREAKDOWN")
	for _, s := range p.Stages {
		fmt.Fprintf(w, "   %s Stage %d: %s -> %s (%.1fx)\n",
			statusIcon(s.Status), s.Number, money(s.Start), money(s.Target), s.Multiplier)
	}
}

func (r *Renderer) writeOpportunities(w io.Writer, opps []scanner.Opportunity) {
	fmt.Fprintln(w, "\nTOP OPPORTUNITIES (by edge score)")
	fmt.Fprintln(w, lightRule)
	for i, o := range opps {
		fmt.Fprintf(w, "%2d. %s $%.4f -> %s\n", i+1, o.Tier.Tag(), o.Market.YesPrice, multiple(o.Multiplier))
		fmt.Fprintf(w, "    Edge: %d/100 | Vol: %s | %s | %s\n",
			o.Score, wholeMoney(o.Market.Volume), days(o.DaysLeft), o.Reasoning)
		fmt.Fprintf(w, "    %s\n", truncate(o.Market.Question, r.questionWidth))
		if o.Market.URL != "" {
			fmt.Fprintf(w, "    %s\n", o.Market.URL)
		}
		fmt.Fprintln(w)
	}
}

func (r *Renderer) writePositions(w io.Writer, p planner.StagePlan, positions []planner.Position) error {
	fmt.Fprintf(w, "\nRECOMMENDED POSITIONS FOR STAGE %d (%s -> %s)\n",
		p.Current, wholeMoney(p.StartCapital), wholeMoney(p.StartCapital*p.PerStage))
	fmt.Fprintln(w, lightRule)

	table := tablewriter.NewWriter(w)
	table.Header("#", "Tier", "Side", "Price", "Stake", "Shares", "Payout", "Market")
	for i, pos := range positions {
		err := table.Append(
			fmt.Sprintf("%d", i+1),
			strings.TrimSpace(pos.Tier.Tag()),
			pos.Side,
			fmt.Sprintf("$%.4f", pos.Price),
			money(pos.Allocation),
			fmt.Sprintf("%.1f", pos.Shares),
			money(pos.PotentialValue),
			truncate(pos.Market.Question, 40),
		)
		if err != nil {
			return fmt.Errorf("append position row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render positions: %w", err)
	}

	fmt.Fprintf(w, "   TOTAL POTENTIAL: %s (if ONE hits)\n", money(planner.TotalPotential(positions)))
	return nil
}

func (r *Renderer) writeRealityCheck(w io.Writer, p planner.StagePlan, positions []planner.Position) {
	fmt.Fprintln(w, "\n"+heavyRule)
	fmt.Fprintln(w, "REALITY CHECK")
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "   * You're betting on %d longshots\n", len(positions))
	fmt.Fprintln(w, "   * Most will lose (that's why they're cheap)")
	fmt.Fprintln(w, "   * If ANY ONE hits, you profit")
	fmt.Fprintf(w, "   * If none hit, you lose %s\n", money(planner.TotalAllocated(positions)))
	fmt.Fprintln(w, "   * Edge scores are a heuristic, not a probability")
	fmt.Fprintln(w, heavyRule)
}

func statusIcon(s planner.Status) string {
	switch s {
	case planner.StatusCompleted:
		return "[X]"
	case planner.StatusCurrent:
		return "[>]"
	default:
		return "[ ]"
	}
}
