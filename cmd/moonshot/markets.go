package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/johan/polymarket-moonshot/internal/report"
)

func newMarketsCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "markets",
		Short: "List scored markets without a stage plan",
		Long: `List the markets that pass the price, volume and days filters, ranked by
edge score, as a table or JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, stdout, stderr)
			if err != nil {
				return err
			}
			return s.runMarkets(cmd.Context())
		},
	}
}

func (s *session) runMarkets(ctx context.Context) error {
	result, err := s.scan(ctx)
	if err != nil {
		return err
	}

	renderer := report.NewRenderer(s.cfg.Report.QuestionWidth)
	shown := result.Top(s.cfg.Scan.TopN)
	if s.cfg.Report.Format == "json" {
		return renderer.MarketsJSON(s.stdout, shown)
	}
	return renderer.MarketsTable(s.stdout, shown)
}
