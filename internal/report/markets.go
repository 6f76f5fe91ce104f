package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/johan/polymarket-moonshot/internal/scanner"
)

// MarketsTable writes ranked opportunities as a table, without a plan.
func (r *Renderer) MarketsTable(w io.Writer, opps []scanner.Opportunity) error {
	if len(opps) == 0 {
		_, err := fmt.Fprintln(w, "No opportunities found matching criteria.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Tier", "Price", "Mult", "Edge", "Volume", "Days", "Category", "Market")
	for i, o := range opps {
		err := table.Append(
			fmt.Sprintf("%d", i+1),
			string(o.Tier),
			fmt.Sprintf("$%.4f", o.Market.YesPrice),
			multiple(o.Multiplier),
			fmt.Sprintf("%d", o.Score),
			wholeMoney(o.Market.Volume),
			days(o.DaysLeft),
			o.Market.Category,
			truncate(o.Market.Question, r.questionWidth),
		)
		if err != nil {
			return fmt.Errorf("append market row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render markets: %w", err)
	}
	return nil
}
