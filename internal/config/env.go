package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment when one is
// present. Variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// ApplyEnv overwrites fields from MOONSHOT_* environment variables that are
// set and non-empty. Malformed values are reported together.
func (c *Config) ApplyEnv() error {
	var errs []error
	setStr(&c.Gamma.BaseURL, "MOONSHOT_GAMMA_BASE_URL")
	setStr(&c.Gamma.TagSlug, "MOONSHOT_GAMMA_TAG_SLUG")
	errs = append(errs,
		setDuration(&c.Gamma.Timeout, "MOONSHOT_GAMMA_TIMEOUT"),
		setFloat64(&c.Plan.StartCapital, "MOONSHOT_START_CAPITAL"),
		setFloat64(&c.Plan.TargetCapital, "MOONSHOT_TARGET_CAPITAL"),
		setFloat64(&c.Scan.MaxPrice, "MOONSHOT_MAX_PRICE"),
		setFloat64(&c.Scan.MinVolume, "MOONSHOT_MIN_VOLUME"),
		setInt(&c.Scan.TopN, "MOONSHOT_TOP_N"),
	)
	setStr(&c.Report.Format, "MOONSHOT_REPORT_FORMAT")
	setStr(&c.Logging.Level, "MOONSHOT_LOG_LEVEL")
	setStr(&c.Logging.Format, "MOONSHOT_LOG_FORMAT")
	return errors.Join(errs...)
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat64(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
