// Package planner computes geometric compounding ladders from a starting
// capital figure to a target and sizes the first stage's positions.
package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidCapital is returned when start <= 0, target <= start, or either
// figure is not finite.
var ErrInvalidCapital = errors.New("planner: invalid capital")

// ErrInvalidOptions is returned for stage options no ladder can satisfy.
var ErrInvalidOptions = errors.New("planner: invalid options")

// DefaultCeiling is the largest per-stage multiplier the automatic stage
// search accepts.
const DefaultCeiling = 10.0

// StageLimit bounds the stage count, pinned or searched.
const StageLimit = 1000

// Status marks a stage's progress. A single run has no history, so stage 1
// is always current.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusCurrent   Status = "CURRENT"
	StatusPending   Status = "PENDING"
)

// Options tune the stage count.
type Options struct {
	// Stages pins the stage count. Zero searches for the smallest count
	// whose per-stage multiplier is at or below Ceiling.
	Stages int

	// Ceiling defaults to DefaultCeiling when zero.
	Ceiling float64

	// MaxStages caps the search. Zero means StageLimit. When the cap is hit
	// the per-stage multiplier may exceed Ceiling.
	MaxStages int
}

// Stage is one leg of the ladder.
type Stage struct {
	Number     int     `json:"stage"`
	Start      float64 `json:"start"`
	Target     float64 `json:"target"`
	Multiplier float64 `json:"multiplier"`
	Status     Status  `json:"status"`
}

// StagePlan is the full ladder. Boundaries holds start * m^k for k = 0..n.
type StagePlan struct {
	StartCapital    float64   `json:"start_capital"`
	TargetCapital   float64   `json:"target_capital"`
	TotalMultiplier float64   `json:"total_multiplier"`
	StageCount      int       `json:"stage_count"`
	PerStage        float64   `json:"per_stage_multiplier"`
	Current         int       `json:"current_stage"`
	Boundaries      []float64 `json:"boundaries"`
	Stages          []Stage   `json:"stages"`
}

// Plan builds the ladder from start to target.
func Plan(start, target float64, opts Options) (StagePlan, error) {
	if !finite(start) || !finite(target) {
		return StagePlan{}, fmt.Errorf("%w: start %v and target %v must be finite", ErrInvalidCapital, start, target)
	}
	if start <= 0 {
		return StagePlan{}, fmt.Errorf("%w: start %v must be positive", ErrInvalidCapital, start)
	}
	if target <= start {
		return StagePlan{}, fmt.Errorf("%w: target %v must exceed start %v", ErrInvalidCapital, target, start)
	}

	total := target / start
	if !finite(total) {
		return StagePlan{}, fmt.Errorf("%w: target/start ratio overflows", ErrInvalidCapital)
	}

	ceiling := opts.Ceiling
	if ceiling == 0 {
		ceiling = DefaultCeiling
	}
	if !(ceiling > 1) || math.IsInf(ceiling, 1) {
		return StagePlan{}, fmt.Errorf("%w: stage ceiling %v must be a finite value above 1", ErrInvalidOptions, ceiling)
	}
	if opts.Stages < 0 || opts.MaxStages < 0 {
		return StagePlan{}, fmt.Errorf("%w: stage counts must not be negative", ErrInvalidOptions)
	}
	if opts.Stages > StageLimit || opts.MaxStages > StageLimit {
		return StagePlan{}, fmt.Errorf("%w: stage counts must not exceed %d", ErrInvalidOptions, StageLimit)
	}

	n := opts.Stages
	if n == 0 {
		limit := opts.MaxStages
		if limit == 0 {
			limit = StageLimit
		}
		// Compare the log estimate to the cap before running the search.
		if math.Log(total)/math.Log(ceiling) > float64(limit) {
			if opts.MaxStages == 0 {
				return StagePlan{}, fmt.Errorf("%w: ceiling %v needs more than %d stages", ErrInvalidOptions, ceiling, StageLimit)
			}
			n = limit
		} else {
			n = min(StageCount(total, ceiling), limit)
		}
	}

	m := math.Pow(total, 1/float64(n))
	if !(m > 1) {
		return StagePlan{}, fmt.Errorf("%w: %d stages split %vx too finely", ErrInvalidOptions, n, total)
	}
	plan := StagePlan{
		StartCapital:    start,
		TargetCapital:   target,
		TotalMultiplier: total,
		StageCount:      n,
		PerStage:        m,
		Current:         1,
		Boundaries:      make([]float64, n+1),
		Stages:          make([]Stage, n),
	}
	for k := 0; k <= n; k++ {
		plan.Boundaries[k] = start * math.Pow(m, float64(k))
		if k > 0 && !(plan.Boundaries[k] > plan.Boundaries[k-1]) {
			return StagePlan{}, fmt.Errorf("%w: %d stages split %vx too finely", ErrInvalidOptions, n, total)
		}
	}
	for i := range plan.Stages {
		num := i + 1
		plan.Stages[i] = Stage{
			Number:     num,
			Start:      plan.Boundaries[i],
			Target:     plan.Boundaries[num],
			Multiplier: m,
			Status:     statusOf(num, plan.Current),
		}
	}
	return plan, nil
}

// StageCount returns the smallest n >= 1 with total^(1/n) <= ceiling.
// total and ceiling must both exceed 1.
func StageCount(total, ceiling float64) int {
	if total <= ceiling {
		return 1
	}
	n := int(math.Ceil(math.Log(total) / math.Log(ceiling)))
	if n < 1 {
		n = 1
	}
	// Correct for rounding in the logarithms.
	for n > 1 && math.Pow(total, 1/float64(n-1)) <= ceiling {
		n--
	}
	for math.Pow(total, 1/float64(n)) > ceiling {
		n++
	}
	return n
}

// Final returns the last boundary, which approximates the target.
func (p StagePlan) Final() float64 {
	if len(p.Boundaries) == 0 {
		return 0
	}
	return p.Boundaries[len(p.Boundaries)-1]
}

// Cents rounds a currency figure to two decimals for display.
func Cents(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}

func statusOf(stage, current int) Status {
	switch {
	case stage < current:
		return StatusCompleted
	case stage == current:
		return StatusCurrent
	default:
		return StatusPending
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
