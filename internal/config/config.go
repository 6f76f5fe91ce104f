// Package config provides configuration loading for the moonshot scanner.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johan/polymarket-moonshot/internal/planner"
)

// Config represents the scanner configuration.
type Config struct {
	// Gamma API settings
	Gamma GammaConfig `yaml:"gamma"`

	// Market selection
	Scan ScanConfig `yaml:"scan"`

	// Edge score weights
	Scoring ScoringConfig `yaml:"scoring"`

	// Compounding plan
	Plan PlanConfig `yaml:"plan"`

	// Output settings
	Report ReportConfig `yaml:"report"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// GammaConfig contains market listing settings.
type GammaConfig struct {
	// API base URL
	BaseURL string `yaml:"base_url"`

	// Whole-request timeout
	Timeout time.Duration `yaml:"timeout"`

	// Maximum markets to fetch
	Limit int `yaml:"limit"`

	// Only include active, unclosed markets
	ActiveOnly bool `yaml:"active_only"`

	// Server-side sort field (e.g., "volume")
	Order string `yaml:"order"`

	// Sort ascending instead of descending
	Ascending bool `yaml:"ascending"`

	// Restrict the listing to one tag (e.g., "science"), empty for all
	TagSlug string `yaml:"tag_slug"`
}

// ScanConfig contains opportunity filter settings.
type ScanConfig struct {
	// Highest yes price that qualifies
	MaxPrice float64 `yaml:"max_price"`

	// Lowest traded volume that qualifies
	MinVolume float64 `yaml:"min_volume"`

	// Minimum days to resolution, 0 disables
	MinDays float64 `yaml:"min_days"`

	// Opportunities shown in the report
	TopN int `yaml:"top_n"`
}

// ScoringConfig contains edge score weights.
type ScoringConfig struct {
	VolumeCap            float64 `yaml:"volume_cap"`
	VolumePivot          float64 `yaml:"volume_pivot"`
	LiquidityCap         float64 `yaml:"liquidity_cap"`
	LiquidityPivot       float64 `yaml:"liquidity_pivot"`
	DefaultCategoryBonus float64 `yaml:"default_category_bonus"`

	// Keyword to bonus; the built-in table applies when empty
	CategoryBonuses map[string]float64 `yaml:"category_bonuses"`
}

// PlanConfig contains compounding plan settings.
type PlanConfig struct {
	StartCapital  float64 `yaml:"start_capital"`
	TargetCapital float64 `yaml:"target_capital"`

	// Pinned stage count, 0 picks automatically
	Stages int `yaml:"stages"`

	// Largest per-stage multiplier the automatic search accepts
	StageCeiling float64 `yaml:"stage_ceiling"`

	// Cap on the automatic search, 0 means none
	MaxStages int `yaml:"max_stages"`

	// Positions recommended for the current stage
	MaxPositions int `yaml:"max_positions"`
}

// ReportConfig contains output settings.
type ReportConfig struct {
	// Output format: text or json
	Format string `yaml:"format"`

	// Prefix for market links
	EventBaseURL string `yaml:"event_base_url"`

	// Question text width in runes
	QuestionWidth int `yaml:"question_width"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `yaml:"level"`

	// Log format: text or json
	Format string `yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Gamma: GammaConfig{
			BaseURL:    "https://gamma-api.polymarket.com",
			Timeout:    30 * time.Second,
			Limit:      500,
			ActiveOnly: true,
			Order:      "volume",
		},
		Scan: ScanConfig{
			MaxPrice: 0.05,
			TopN:     10,
		},
		Scoring: ScoringConfig{
			VolumeCap:            40,
			VolumePivot:          50000,
			LiquidityCap:         30,
			LiquidityPivot:       10000,
			DefaultCategoryBonus: 10,
		},
		Plan: PlanConfig{
			StartCapital:  50,
			TargetCapital: 100000,
			StageCeiling:  10,
			MaxPositions:  10,
		},
		Report: ReportConfig{
			Format:        "text",
			EventBaseURL:  "https://polymarket.com/event/",
			QuestionWidth: 65,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for errors. Capital figures are left to
// the planner.
func (c *Config) Validate() error {
	if c.Gamma.BaseURL == "" {
		return fmt.Errorf("gamma base_url required")
	}
	if c.Gamma.Timeout <= 0 {
		return fmt.Errorf("invalid gamma timeout: %s", c.Gamma.Timeout)
	}
	if c.Gamma.Limit <= 0 {
		return fmt.Errorf("invalid gamma limit: %d", c.Gamma.Limit)
	}
	if !(c.Scan.MaxPrice > 0 && c.Scan.MaxPrice <= 1) {
		return fmt.Errorf("max_price must be in (0, 1]: %v", c.Scan.MaxPrice)
	}
	if !(c.Scan.MinVolume >= 0) {
		return fmt.Errorf("min_volume must not be negative: %v", c.Scan.MinVolume)
	}
	if !(c.Scan.MinDays >= 0) {
		return fmt.Errorf("min_days must not be negative: %v", c.Scan.MinDays)
	}
	if c.Scan.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1: %d", c.Scan.TopN)
	}
	if !(c.Plan.StageCeiling > 1) {
		return fmt.Errorf("stage_ceiling must exceed 1: %v", c.Plan.StageCeiling)
	}
	if c.Plan.Stages < 0 || c.Plan.MaxStages < 0 {
		return fmt.Errorf("stages and max_stages must not be negative")
	}
	if c.Plan.Stages > planner.StageLimit || c.Plan.MaxStages > planner.StageLimit {
		return fmt.Errorf("stages and max_stages must not exceed %d", planner.StageLimit)
	}
	if c.Plan.MaxPositions < 1 {
		return fmt.Errorf("max_positions must be at least 1: %d", c.Plan.MaxPositions)
	}
	if c.Report.Format != "text" && c.Report.Format != "json" {
		return fmt.Errorf("invalid report format: %s", c.Report.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}
	return nil
}
