package sizing

import (
	"fmt"
	"math"
	"sync"

	"hybrid-sizing/internal/sim"
)

// DefaultMaxCandidates caps how many simulations a single sweep may run.
// A sweep exceeding the cap is auto-coarsened, never truncated.
const DefaultMaxCandidates = 200

// Range describes a swept dimension: Min..Max inclusive in Step increments.
type Range struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
}

func (r Range) Validate() error {
	if r.Step <= 0 {
		return fmt.Errorf("range step must be > 0, got %g", r.Step)
	}
	if r.Max < r.Min {
		return fmt.Errorf("range max %g below min %g", r.Max, r.Min)
	}
	return nil
}

// Count is the number of candidate values the range produces.
func (r Range) Count() int {
	if r.Step <= 0 || r.Max < r.Min {
		return 0
	}
	return int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
}

// Values materializes the candidate values.
func (r Range) Values() []float64 {
	n := r.Count()
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.Min+float64(i)*r.Step)
	}
	return out
}

// Adjustment reports an auto-coarsening applied to keep a sweep under the
// candidate cap, so the caller can decide whether the coarser step is
// acceptable.
type Adjustment struct {
	Dimension      string  `json:"dimension"`
	RequestedCount int     `json:"requested_count"`
	RequestedStep  float64 `json:"requested_step"`
	AdjustedStep   float64 `json:"adjusted_step"`
	ActualCount    int     `json:"actual_count"`
}

// Coarsen widens the step until the range yields at most maxCandidates
// values, covering the same span. Returns nil when no adjustment was needed.
func (r Range) Coarsen(dimension string, maxCandidates int) (Range, *Adjustment) {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	n := r.Count()
	if n <= maxCandidates {
		return r, nil
	}
	factor := math.Ceil(float64(n-1) / float64(maxCandidates-1))
	adjusted := Range{Min: r.Min, Max: r.Max, Step: r.Step * factor}
	return adjusted, &Adjustment{
		Dimension:      dimension,
		RequestedCount: n,
		RequestedStep:  r.Step,
		AdjustedStep:   adjusted.Step,
		ActualCount:    adjusted.Count(),
	}
}

// Outcome pairs one candidate value with its simulated metrics.
type Outcome struct {
	Value   float64
	Metrics sim.AggregateMetrics
}

// EvalFunc runs one candidate. Each invocation must build its own models;
// candidates share no mutable state.
type EvalFunc func(value float64) (sim.AggregateMetrics, error)

// Evaluate runs eval for every candidate value, in input order in the result
// slice. workers > 1 evaluates candidates concurrently; a sequential sweep
// (workers ≤ 1) is always equivalent.
func Evaluate(values []float64, workers int, eval EvalFunc) ([]Outcome, error) {
	outcomes := make([]Outcome, len(values))

	if workers <= 1 {
		for i, v := range values {
			m, err := eval(v)
			if err != nil {
				return nil, fmt.Errorf("candidate %g: %w", v, err)
			}
			outcomes[i] = Outcome{Value: v, Metrics: m}
		}
		return outcomes, nil
	}

	if workers > len(values) {
		workers = len(values)
	}
	idx := make(chan int)
	errs := make([]error, len(values))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				m, err := eval(values[i])
				if err != nil {
					errs[i] = err
					continue
				}
				outcomes[i] = Outcome{Value: values[i], Metrics: m}
			}
		}()
	}
	for i := range values {
		idx <- i
	}
	close(idx)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("candidate %g: %w", values[i], err)
		}
	}
	return outcomes, nil
}
