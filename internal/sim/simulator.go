package sim

import (
	"fmt"

	"hybrid-sizing/internal/model"
)

// Simulator drives the hourly dispatcher across a full horizon.
// It is single-threaded by design: each hour depends on the battery and
// generator state left by the previous hour. Identical inputs always produce
// the identical record sequence.
type Simulator struct {
	Policy       Policy
	HorizonHours int
}

func New(policy Policy, horizonHours int) *Simulator {
	if horizonHours <= 0 {
		horizonHours = model.HoursPerYear
	}
	return &Simulator{Policy: policy, HorizonHours: horizonHours}
}

// Run executes one simulation over the given solar and load series.
// gen may be nil (binary-target sizing has no generator). Series whose length
// differs from the horizon are simulated as-is and flagged in
// Result.Warnings; configuration problems must be caught by validation before
// models are constructed, so Run itself never fails for data-driven reasons.
func (s *Simulator) Run(solar, load model.HourlySeries, b *model.Battery, g *model.Generator) (*Result, error) {
	if b == nil {
		return nil, fmt.Errorf("battery is nil")
	}
	if len(solar) == 0 {
		return nil, fmt.Errorf("empty solar series")
	}

	var warnings []string
	warnings = append(warnings, solar.CheckShape("solar", s.HorizonHours)...)
	warnings = append(warnings, load.CheckShape("load", len(solar))...)

	hours := len(solar)
	records := make([]HourRecord, 0, hours)

	for h := 0; h < hours; h++ {
		b.BeginHour(h)
		// Hysteresis uses the SOC as of the start of the hour. The binary
		// policy never runs the generator, so its state is left untouched
		// there; stepping it would accrue starts with zero runtime.
		if g != nil && s.Policy == PolicyMeritOrder {
			g.UpdateState(b.SOC)
		}

		rec := dispatchHour(s.Policy, h, solar.At(h), load.At(h), b, g)
		b.ApplyTransition(rec.BatteryMode)
		records = append(records, rec)
	}
	b.CloseDay()

	return &Result{
		Records:   records,
		Metrics:   ComputeMetrics(records, b, g),
		Warnings:  warnings,
		Battery:   b,
		Generator: g,
	}, nil
}
