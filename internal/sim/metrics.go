package sim

import "hybrid-sizing/internal/model"

// AggregateMetrics is a read-only summary over a full HourRecord sequence.
// Every field is a scalar so the set serializes cleanly to CSV.
type AggregateMetrics struct {
	TotalHours     int
	DeliveredHours int
	DeliveredPct   float64

	DeliveredEnergyMWh float64
	DeficitHours       int
	CycleLimitedHours  int // resource-sufficient hours lost to the daily cycle cap

	TotalCycles    float64
	AvgDailyCycles float64
	MaxDailyCycles float64
	DegradationPct float64

	SolarGeneratedMWh float64
	SolarToLoadMWh    float64
	SolarChargedMWh   float64
	SolarWastedMWh    float64
	// WastagePct is wasted / (wasted + stored); discharge energy is excluded.
	WastagePct float64

	// GreenDeliveredPct is the share of delivered energy not sourced
	// directly from the generator.
	GreenDeliveredPct float64

	GenRuntimeHours       float64
	GenStarts             int
	GenEnergyMWh          float64
	GenEnergyToLoadMWh    float64
	GenEnergyToBatteryMWh float64
	FuelLiters            float64
}

// ComputeMetrics derives the aggregate summary from the record sequence and
// the terminal model states. gen may be nil.
func ComputeMetrics(records []HourRecord, b *model.Battery, g *model.Generator) AggregateMetrics {
	m := AggregateMetrics{TotalHours: len(records)}

	for _, r := range records {
		if r.Delivered() {
			m.DeliveredHours++
		} else {
			m.DeficitHours++
			if r.Cause == CauseCycleLimit {
				m.CycleLimitedHours++
			}
		}
		m.DeliveredEnergyMWh += r.DeliveredMW
		m.SolarGeneratedMWh += r.SolarMW
		m.SolarToLoadMWh += r.SolarToLoadMWh
		m.SolarChargedMWh += r.SolarToBatteryMWh
		m.SolarWastedMWh += r.SolarWastedMWh
		m.GenEnergyToLoadMWh += r.GenToLoadMWh
		m.GenEnergyToBatteryMWh += r.GenToBatteryMWh
	}

	if m.TotalHours > 0 {
		m.DeliveredPct = 100 * float64(m.DeliveredHours) / float64(m.TotalHours)
	}
	if denom := m.SolarWastedMWh + m.SolarChargedMWh; denom > 0 {
		m.WastagePct = 100 * m.SolarWastedMWh / denom
	}
	if m.DeliveredEnergyMWh > 0 {
		m.GreenDeliveredPct = 100 * (m.DeliveredEnergyMWh - m.GenEnergyToLoadMWh) / m.DeliveredEnergyMWh
	}

	if b != nil {
		m.TotalCycles = b.TotalCycles
		m.DegradationPct = 100 * b.Degradation()
		if n := len(b.DailyCycles); n > 0 {
			sum := 0.0
			for _, c := range b.DailyCycles {
				sum += c
				if c > m.MaxDailyCycles {
					m.MaxDailyCycles = c
				}
			}
			m.AvgDailyCycles = sum / float64(n)
		}
	}

	if g != nil {
		m.GenRuntimeHours = g.RuntimeHours
		m.GenStarts = g.Starts
		m.GenEnergyMWh = g.EnergyMWh
		m.FuelLiters = g.FuelLiters
	}
	return m
}
