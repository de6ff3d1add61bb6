package sizing

import (
	"fmt"

	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
)

// Runner evaluates candidate configurations against one fixed pair of
// solar/load series. Every candidate gets fresh Battery/Generator instances,
// so candidates are independent and safe to simulate in parallel.
type Runner struct {
	Policy       sim.Policy
	HorizonHours int

	Solar model.HourlySeries
	Load  model.HourlySeries

	Battery   model.BatteryParams
	Generator *model.GeneratorParams // nil when the candidate set has no DG

	Workers       int
	MaxCandidates int
}

func (r *Runner) maxCandidates() int {
	if r.MaxCandidates > 0 {
		return r.MaxCandidates
	}
	return DefaultMaxCandidates
}

func (r *Runner) simulate(bp model.BatteryParams, gp *model.GeneratorParams) (sim.AggregateMetrics, error) {
	b := model.NewBattery(bp)
	var g *model.Generator
	if gp != nil && gp.CapacityMW > 0 {
		g = model.NewGenerator(*gp)
	}
	res, err := sim.New(r.Policy, r.HorizonHours).Run(r.Solar, r.Load, b, g)
	if err != nil {
		return sim.AggregateMetrics{}, err
	}
	return res.Metrics, nil
}

// SweepResult is the full output of a one-dimensional sizing sweep: every
// tested candidate, the selected optimum, and any auto-coarsening applied.
type SweepResult struct {
	Outcomes   []Outcome
	Selected   Selection
	Strategy   string
	Adjustment *Adjustment
}

// Optimum returns the selected outcome, or false when selection failed.
func (s SweepResult) Optimum() (Outcome, bool) {
	if s.Selected.Index < 0 || s.Selected.Index >= len(s.Outcomes) {
		return Outcome{}, false
	}
	return s.Outcomes[s.Selected.Index], true
}

// SizeBattery sweeps battery energy capacity (MWh) and applies the given
// selection strategy.
func (r *Runner) SizeBattery(sizes Range, strat Strategy) (*SweepResult, error) {
	if err := sizes.Validate(); err != nil {
		return nil, fmt.Errorf("battery size range: %w", err)
	}
	sizes, adj := sizes.Coarsen("battery_mwh", r.maxCandidates())

	outcomes, err := Evaluate(sizes.Values(), r.Workers, func(capacityMWh float64) (sim.AggregateMetrics, error) {
		bp := r.Battery
		bp.EnergyCapacityMWh = capacityMWh
		return r.simulate(bp, r.Generator)
	})
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		Outcomes:   outcomes,
		Selected:   strat.Select(outcomes),
		Strategy:   strat.Name(),
		Adjustment: adj,
	}, nil
}

// SizeGenerator sweeps diesel capacity as a percentage of peak load
// (pctRange in percent, e.g. 10..100 step 5) and selects the smallest
// capacity achieving 100% of hours delivered.
func (r *Runner) SizeGenerator(pctRange Range) (*SweepResult, error) {
	if r.Generator == nil {
		return nil, fmt.Errorf("generator sizing requires base generator parameters")
	}
	if err := pctRange.Validate(); err != nil {
		return nil, fmt.Errorf("generator percent range: %w", err)
	}
	peak := 0.0
	for _, v := range r.Load {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return nil, fmt.Errorf("load series has no positive values to size against")
	}
	pctRange, adj := pctRange.Coarsen("generator_pct", r.maxCandidates())

	outcomes, err := Evaluate(pctRange.Values(), r.Workers, func(pct float64) (sim.AggregateMetrics, error) {
		gp := *r.Generator
		gp.CapacityMW = peak * pct / 100
		return r.simulate(r.Battery, &gp)
	})
	if err != nil {
		return nil, err
	}
	// Report absolute MW rather than the swept percentage.
	for i := range outcomes {
		outcomes[i].Value = peak * outcomes[i].Value / 100
	}

	strat := MinimumForFullDelivery{}
	return &SweepResult{
		Outcomes:   outcomes,
		Selected:   strat.Select(outcomes),
		Strategy:   strat.Name(),
		Adjustment: adj,
	}, nil
}
