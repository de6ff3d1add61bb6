package model

import (
	"math"
)

// BatteryParams defines the physical parameters of the battery.
// Units:
// - EnergyCapacityMWh: MWh
// - C-rates: max power as a multiple of energy capacity (1.0 on 100 MWh = 100 MW)
// - RoundTripEfficiency: 0..1; the one-way efficiency applied per direction is its square root
// - SOC: fraction 0..1
// - MaxDailyCycles: equivalent full cycles allowed per calendar day; 0 disables the cap
// - DegradationPerCycle: capacity fraction lost per equivalent full cycle
type BatteryParams struct {
	EnergyCapacityMWh   float64
	CRateCharge         float64
	CRateDischarge      float64
	RoundTripEfficiency float64
	MinSOC              float64
	MaxSOC              float64
	InitialSOC          float64
	MaxDailyCycles      float64
	DegradationPerCycle float64
}

// OneWayEfficiency is the per-direction efficiency, √(round-trip), so that a
// full charge+discharge round trip loses exactly 1−RoundTripEfficiency.
func (p BatteryParams) OneWayEfficiency() float64 {
	return math.Sqrt(p.RoundTripEfficiency)
}

// Battery is the stateful single-battery model. One instance is owned by
// exactly one simulation run; create a fresh one per candidate evaluation.
type Battery struct {
	Params BatteryParams

	// SOC is the state of charge as a fraction, always within [MinSOC, MaxSOC].
	SOC  float64
	Mode BatteryMode

	TotalCycles         float64
	EnergyChargedMWh    float64 // cumulative AC-side energy consumed while charging
	EnergyDischargedMWh float64 // cumulative AC-side energy delivered while discharging

	day         int
	dayCycles   float64
	DailyCycles []float64 // closed-out per-day cycle totals
}

// NewBattery creates a battery at its configured initial SOC in IDLE mode.
// Params are assumed validated (config.Validate gates before any run).
func NewBattery(params BatteryParams) *Battery {
	return &Battery{
		Params: params,
		SOC:    params.InitialSOC,
		Mode:   ModeIdle,
	}
}

// AvailableEnergy is the battery-side energy above the SOC floor, MWh.
func (b *Battery) AvailableEnergy() float64 {
	return math.Max(0, (b.SOC-b.Params.MinSOC)*b.Params.EnergyCapacityMWh)
}

// ChargeHeadroom is the battery-side energy below the SOC ceiling, MWh.
func (b *Battery) ChargeHeadroom() float64 {
	return math.Max(0, (b.Params.MaxSOC-b.SOC)*b.Params.EnergyCapacityMWh)
}

// MaxDischargeMWh is the battery-side energy that can leave the cell this
// hour: SOC availability and the discharge C-rate applied independently.
func (b *Battery) MaxDischargeMWh() float64 {
	return math.Min(b.AvailableEnergy(), b.Params.EnergyCapacityMWh*b.Params.CRateDischarge)
}

// DeliverableMWh is the AC-side energy the battery can actually put on the
// bus this hour, after one-way conversion losses.
func (b *Battery) DeliverableMWh() float64 {
	return b.MaxDischargeMWh() * b.Params.OneWayEfficiency()
}

// Charge absorbs up to acMWh of AC-side energy. The battery-side energy is
// acMWh × one-way efficiency, clamped by min(headroom, capacity × C-rate).
// Returns the AC-side energy actually consumed (≤ acMWh). Never errors; a
// full battery consumes 0.
func (b *Battery) Charge(acMWh float64) float64 {
	if acMWh <= 0 {
		return 0
	}
	eff := b.Params.OneWayEfficiency()
	cellMWh := acMWh * eff
	cellMWh = math.Min(cellMWh, b.ChargeHeadroom())
	cellMWh = math.Min(cellMWh, b.Params.EnergyCapacityMWh*b.Params.CRateCharge)
	if cellMWh <= 0 {
		return 0
	}
	b.SOC += cellMWh / b.Params.EnergyCapacityMWh
	if b.SOC > b.Params.MaxSOC {
		b.SOC = b.Params.MaxSOC
	}
	consumed := cellMWh / eff
	b.EnergyChargedMWh += consumed
	return consumed
}

// Discharge delivers up to reqMWh of AC-side energy. The battery-side draw is
// reqMWh ÷ one-way efficiency, clamped by min(available, capacity × C-rate).
// Returns the AC-side energy actually delivered (≤ reqMWh).
func (b *Battery) Discharge(reqMWh float64) float64 {
	if reqMWh <= 0 {
		return 0
	}
	eff := b.Params.OneWayEfficiency()
	cellMWh := reqMWh / eff
	cellMWh = math.Min(cellMWh, b.MaxDischargeMWh())
	if cellMWh <= 0 {
		return 0
	}
	b.SOC -= cellMWh / b.Params.EnergyCapacityMWh
	if b.SOC < b.Params.MinSOC {
		b.SOC = b.Params.MinSOC
	}
	delivered := cellMWh * eff
	b.EnergyDischargedMWh += delivered
	return delivered
}

// BeginHour rolls the per-day cycle accumulator at day boundaries. Call once
// at the start of every simulated hour, before CanTransition checks.
func (b *Battery) BeginHour(hour int) {
	d := hour / 24
	if hour > 0 && hour%24 == 0 && d > b.day {
		b.closeDay()
		b.day = d
	}
}

// CanTransition reports whether moving to mode is allowed under the daily
// cycle cap. Non-counting transitions are always allowed. Callers must check
// this before committing a charge or discharge when the cap is enforced.
func (b *Battery) CanTransition(mode BatteryMode) bool {
	if b.Params.MaxDailyCycles <= 0 {
		return true
	}
	inc := CycleIncrement(b.Mode, mode)
	if inc == 0 {
		return true
	}
	return b.dayCycles+inc <= b.Params.MaxDailyCycles+1e-9
}

// ApplyTransition commits the hour's operating mode, accruing cycle credit
// per the transition table.
func (b *Battery) ApplyTransition(mode BatteryMode) {
	inc := CycleIncrement(b.Mode, mode)
	b.TotalCycles += inc
	b.dayCycles += inc
	b.Mode = mode
}

// CloseDay flushes the running accumulator into DailyCycles. The simulator
// calls this once after the horizon to capture the final partial day.
func (b *Battery) CloseDay() {
	b.closeDay()
}

func (b *Battery) closeDay() {
	b.DailyCycles = append(b.DailyCycles, b.dayCycles)
	b.dayCycles = 0
}

// Degradation is the cumulative capacity fraction lost to cycling.
func (b *Battery) Degradation() float64 {
	return b.TotalCycles * b.Params.DegradationPerCycle
}
