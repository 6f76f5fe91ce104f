package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johan/polymarket-moonshot/internal/config"
	"github.com/johan/polymarket-moonshot/internal/gamma"
	"github.com/johan/polymarket-moonshot/internal/logging"
	"github.com/johan/polymarket-moonshot/internal/planner"
	"github.com/johan/polymarket-moonshot/internal/report"
	"github.com/johan/polymarket-moonshot/internal/scanner"
)

const defaultConfigPath = "moonshot.yaml"

// options holds command-line values. Flags only override the config when
// set explicitly.
type options struct {
	configPath string
	capital    float64
	target     float64
	maxPrice   float64
	minVolume  float64
	minDays    float64
	tag        string
	topN       int
	stages     int
	output     string
	logLevel   string
}

// session is the per-run state shared by the commands.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	runID  string
	stdout io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "moonshot",
		Short: "Find cheap longshot contracts on Polymarket and plan a compounding ladder",
		Long: `moonshot fetches the Polymarket market listing once, keeps yes contracts
priced at or below --max-price, scores them with an edge heuristic, and prints
a stage-by-stage plan from --capital to --target alongside the top picks.

Examples:
  moonshot                        # $50 -> $100k
  moonshot --capital 100          # start with $100
  moonshot --max-price 0.10       # look at up to 10 cent contracts
  moonshot --min-volume 50000     # only markets with $50k+ volume
  moonshot markets --output json  # scored markets without a plan`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, opts, stdout, stderr)
			if err != nil {
				return err
			}
			return s.runPlan(cmd.Context())
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to YAML config file")
	pf.Float64VarP(&opts.maxPrice, "max-price", "p", defaults.Scan.MaxPrice, "Maximum yes price to consider")
	pf.Float64VarP(&opts.minVolume, "min-volume", "v", defaults.Scan.MinVolume, "Minimum market volume in USD")
	pf.Float64Var(&opts.minDays, "min-days", defaults.Scan.MinDays, "Minimum days to resolution (0 disables)")
	pf.StringVar(&opts.tag, "tag", defaults.Gamma.TagSlug, "Only fetch markets with this tag slug (e.g. science)")
	pf.IntVarP(&opts.topN, "top", "n", defaults.Scan.TopN, "Number of opportunities to show")
	pf.StringVarP(&opts.output, "output", "o", defaults.Report.Format, "Output format: text or json")
	pf.StringVar(&opts.logLevel, "log-level", defaults.Logging.Level, "Log level: debug, info, warn, error")

	f := root.Flags()
	f.Float64VarP(&opts.capital, "capital", "c", defaults.Plan.StartCapital, "Starting capital in USD")
	f.Float64VarP(&opts.target, "target", "t", defaults.Plan.TargetCapital, "Target capital in USD")
	f.IntVar(&opts.stages, "stages", defaults.Plan.Stages, "Pin the stage count (0 picks automatically)")

	root.AddCommand(newMarketsCommand(opts, stdout, stderr))
	return root
}

// loadConfig layers the config file, .env and MOONSHOT_* variables, then
// explicitly set flags.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || cmd.Flags().Changed("config") {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("capital") {
		cfg.Plan.StartCapital = opts.capital
	}
	if flags.Changed("target") {
		cfg.Plan.TargetCapital = opts.target
	}
	if flags.Changed("stages") {
		cfg.Plan.Stages = opts.stages
	}
	if flags.Changed("max-price") {
		cfg.Scan.MaxPrice = opts.maxPrice
	}
	if flags.Changed("min-volume") {
		cfg.Scan.MinVolume = opts.minVolume
	}
	if flags.Changed("min-days") {
		cfg.Scan.MinDays = opts.minDays
	}
	if flags.Changed("tag") {
		cfg.Gamma.TagSlug = opts.tag
	}
	if flags.Changed("top") {
		cfg.Scan.TopN = opts.topN
	}
	if flags.Changed("output") {
		cfg.Report.Format = opts.output
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command, opts *options, stdout, stderr io.Writer) (*session, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()

	return &session{
		cfg:    cfg,
		logger: logger.With(slog.String("run_id", runID)),
		runID:  runID,
		stdout: stdout,
	}, nil
}

// runPlan builds the stage plan, scans the listing and renders the report.
func (s *session) runPlan(ctx context.Context) error {
	plan, err := planner.Plan(s.cfg.Plan.StartCapital, s.cfg.Plan.TargetCapital, planner.Options{
		Stages:    s.cfg.Plan.Stages,
		Ceiling:   s.cfg.Plan.StageCeiling,
		MaxStages: s.cfg.Plan.MaxStages,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("stage plan",
		slog.Int("stages", plan.StageCount),
		slog.Float64("per_stage", plan.PerStage),
	)

	result, err := s.scan(ctx)
	if err != nil {
		return err
	}

	rep := report.New(plan, result, s.cfg.Scan.TopN, s.cfg.Plan.MaxPositions)
	rep.RunID = s.runID

	renderer := report.NewRenderer(s.cfg.Report.QuestionWidth)
	if s.cfg.Report.Format == "json" {
		return renderer.JSON(s.stdout, rep)
	}
	return renderer.Text(s.stdout, rep)
}

// scan fetches the listing once and ranks the qualifying markets.
func (s *session) scan(ctx context.Context) (scanner.Result, error) {
	gc := s.cfg.Gamma
	client := gamma.NewClient(&http.Client{Timeout: gc.Timeout}).
		WithBaseURL(gc.BaseURL).
		WithEventBaseURL(s.cfg.Report.EventBaseURL).
		WithLogger(s.logger)

	filter := &gamma.Filter{
		TagSlug:   gc.TagSlug,
		Order:     gc.Order,
		Ascending: gc.Ascending,
		Limit:     gc.Limit,
	}
	if gc.ActiveOnly {
		active, closed := true, false
		filter.Active = &active
		filter.Closed = &closed
	}

	ctx, cancel := context.WithTimeout(ctx, gc.Timeout)
	defer cancel()

	markets, err := client.FetchMarkets(ctx, filter)
	if err != nil {
		return scanner.Result{}, err
	}

	criteria := scanner.Criteria{
		MaxPrice:  s.cfg.Scan.MaxPrice,
		MinVolume: s.cfg.Scan.MinVolume,
		MinDays:   s.cfg.Scan.MinDays,
	}
	result := scanner.New(criteria, scanner.NewScorer(weights(s.cfg.Scoring))).Scan(markets)

	s.logger.Info("scan complete",
		slog.Int("fetched", result.Fetched),
		slog.Int("qualified", result.Qualified),
		slog.Int("shown", len(result.Top(s.cfg.Scan.TopN))),
	)
	return result, nil
}

func weights(c config.ScoringConfig) scanner.Weights {
	return scanner.Weights{
		VolumeCap:            c.VolumeCap,
		VolumePivot:          c.VolumePivot,
		LiquidityCap:         c.LiquidityCap,
		LiquidityPivot:       c.LiquidityPivot,
		DefaultCategoryBonus: c.DefaultCategoryBonus,
		CategoryBonuses:      c.CategoryBonuses,
	}
}
