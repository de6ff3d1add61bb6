package sizing

import (
	"fmt"
	"math"

	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
)

// ContainerSpec is one storage container product option: its energy block and
// the electrical characteristics it imposes on the battery.
type ContainerSpec struct {
	Name                string  `yaml:"name" json:"name"`
	EnergyMWh           float64 `yaml:"energy_mwh" json:"energy_mwh"`
	CRateCharge         float64 `yaml:"c_rate_charge" json:"c_rate_charge"`
	CRateDischarge      float64 `yaml:"c_rate_discharge" json:"c_rate_discharge"`
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency" json:"round_trip_efficiency"`
}

// GridCandidate is one point of the solar × BESS × container × DG sweep.
// Batteries are built from whole containers: the swept BatteryMWh is rounded
// up to ContainerCount × the container's energy block, and EffectiveMWh is
// the capacity actually simulated.
type GridCandidate struct {
	SolarMW        float64       `json:"solar_mw"`
	BatteryMWh     float64       `json:"battery_mwh"`
	Container      ContainerSpec `json:"container"`
	ContainerCount int           `json:"container_count"`
	EffectiveMWh   float64       `json:"effective_mwh"`
	GenMW          float64       `json:"gen_mw"`
}

// GridOutcome pairs a grid candidate with its simulated metrics and the two
// viability checks.
type GridOutcome struct {
	Candidate GridCandidate        `json:"candidate"`
	Metrics   sim.AggregateMetrics `json:"metrics"`
	Viable    bool                 `json:"viable"`
}

// GridSweep runs the full Cartesian sweep over solar plant size, battery
// energy, container type and generator size. The Runner's solar series is
// treated as a normalized per-MW profile and scaled by each candidate's
// SolarMW.
type GridSweep struct {
	SolarMW    Range
	BatteryMWh Range
	Containers []ContainerSpec
	GenMW      Range

	// Viability constraints, both must hold.
	MinGreenPct   float64
	MaxWastagePct float64
}

// GridResult is the sweep output: all outcomes, the viable subset, and the
// minimum value along each swept dimension that still satisfies viability.
type GridResult struct {
	Outcomes []GridOutcome `json:"outcomes"`
	Viable   []GridOutcome `json:"viable"`

	MinViableSolarMW    float64 `json:"min_viable_solar_mw"`
	MinViableBatteryMWh float64 `json:"min_viable_battery_mwh"`
	MinViableGenMW      float64 `json:"min_viable_gen_mw"`

	Adjustments []Adjustment `json:"adjustments,omitempty"`
}

// Run evaluates the sweep. The candidate count is capped by coarsening the
// widest range dimension (never by truncating a span); every applied
// adjustment is reported in the result.
func (gs GridSweep) Run(r *Runner) (*GridResult, error) {
	for name, rng := range map[string]Range{
		"solar_mw": gs.SolarMW, "battery_mwh": gs.BatteryMWh, "gen_mw": gs.GenMW,
	} {
		if err := rng.Validate(); err != nil {
			return nil, fmt.Errorf("%s range: %w", name, err)
		}
	}
	if len(gs.Containers) == 0 {
		return nil, fmt.Errorf("at least one container spec is required")
	}
	// A positive gen_mw candidate needs hysteresis thresholds to simulate
	// with. Running it generator-free instead would make gen_mw=20 identical
	// to gen_mw=0 and quietly corrupt the viability minima.
	if gs.GenMW.Max > 0 && r.Generator == nil {
		return nil, fmt.Errorf("gen_mw range reaches %g MW but no generator parameters (SOC thresholds) are configured", gs.GenMW.Max)
	}

	result := &GridResult{}
	gs.coarsenToCap(r.maxCandidates(), &result.Adjustments)

	candidates := gs.candidates()
	outcomes := make([]GridOutcome, len(candidates))

	idx := make([]float64, len(candidates))
	for i := range idx {
		idx[i] = float64(i)
	}
	_, err := Evaluate(idx, r.Workers, func(fi float64) (sim.AggregateMetrics, error) {
		i := int(fi)
		c := candidates[i]

		bp := r.Battery
		bp.EnergyCapacityMWh = c.EffectiveMWh
		bp.CRateCharge = c.Container.CRateCharge
		bp.CRateDischarge = c.Container.CRateDischarge
		if c.Container.RoundTripEfficiency > 0 {
			bp.RoundTripEfficiency = c.Container.RoundTripEfficiency
		}

		var gp *model.GeneratorParams
		if r.Generator != nil && c.GenMW > 0 {
			g := *r.Generator
			g.CapacityMW = c.GenMW
			gp = &g
		}

		b := model.NewBattery(bp)
		var g *model.Generator
		if gp != nil {
			g = model.NewGenerator(*gp)
		}
		res, err := sim.New(r.Policy, r.HorizonHours).Run(r.Solar.Scaled(c.SolarMW), r.Load, b, g)
		if err != nil {
			return sim.AggregateMetrics{}, err
		}
		outcomes[i] = GridOutcome{Candidate: c, Metrics: res.Metrics}
		return res.Metrics, nil
	})
	if err != nil {
		return nil, err
	}

	result.Outcomes = outcomes
	result.MinViableSolarMW = math.NaN()
	result.MinViableBatteryMWh = math.NaN()
	result.MinViableGenMW = math.NaN()

	for i := range outcomes {
		o := &outcomes[i]
		o.Viable = o.Metrics.GreenDeliveredPct >= gs.MinGreenPct &&
			o.Metrics.WastagePct <= gs.MaxWastagePct
		if !o.Viable {
			continue
		}
		result.Viable = append(result.Viable, *o)
		if math.IsNaN(result.MinViableSolarMW) || o.Candidate.SolarMW < result.MinViableSolarMW {
			result.MinViableSolarMW = o.Candidate.SolarMW
		}
		if math.IsNaN(result.MinViableBatteryMWh) || o.Candidate.BatteryMWh < result.MinViableBatteryMWh {
			result.MinViableBatteryMWh = o.Candidate.BatteryMWh
		}
		if math.IsNaN(result.MinViableGenMW) || o.Candidate.GenMW < result.MinViableGenMW {
			result.MinViableGenMW = o.Candidate.GenMW
		}
	}
	return result, nil
}

func (gs *GridSweep) candidates() []GridCandidate {
	var out []GridCandidate
	for _, s := range gs.SolarMW.Values() {
		for _, bm := range gs.BatteryMWh.Values() {
			for _, ct := range gs.Containers {
				count := 0
				effective := bm
				if ct.EnergyMWh > 0 && bm > 0 {
					count = int(math.Ceil(bm/ct.EnergyMWh - 1e-9))
					effective = float64(count) * ct.EnergyMWh
				}
				for _, g := range gs.GenMW.Values() {
					out = append(out, GridCandidate{
						SolarMW:        s,
						BatteryMWh:     bm,
						Container:      ct,
						ContainerCount: count,
						EffectiveMWh:   effective,
						GenMW:          g,
					})
				}
			}
		}
	}
	return out
}

// coarsenToCap repeatedly halves the widest range until the Cartesian product
// fits under the cap. Container types are discrete and never dropped.
func (gs *GridSweep) coarsenToCap(maxCandidates int, adjustments *[]Adjustment) {
	type dim struct {
		name string
		rng  *Range
	}
	dims := []dim{
		{"solar_mw", &gs.SolarMW},
		{"battery_mwh", &gs.BatteryMWh},
		{"gen_mw", &gs.GenMW},
	}

	product := func() int {
		p := len(gs.Containers)
		for _, d := range dims {
			p *= d.rng.Count()
		}
		return p
	}

	for product() > maxCandidates {
		widest := -1
		for i, d := range dims {
			if d.rng.Count() < 3 {
				continue
			}
			if widest < 0 || d.rng.Count() > dims[widest].rng.Count() {
				widest = i
			}
		}
		if widest < 0 {
			// Nothing left to coarsen; run the sweep anyway rather than
			// silently dropping candidates.
			return
		}
		d := dims[widest]
		target := (d.rng.Count() + 1) / 2
		coarsened, adj := d.rng.Coarsen(d.name, target)
		*d.rng = coarsened
		if adj != nil {
			*adjustments = append(*adjustments, *adj)
		}
	}
}
