package model

// FuelCurve is a linear no-load + slope diesel fuel model:
// liters/hour = InterceptLPerMWh × rated MW + SlopeLPerMWh × output MW.
// A zero-value curve disables fuel accounting.
type FuelCurve struct {
	InterceptLPerMWh float64
	SlopeLPerMWh     float64
}

// Enabled reports whether the curve carries any fuel accounting at all.
func (f FuelCurve) Enabled() bool {
	return f.InterceptLPerMWh > 0 || f.SlopeLPerMWh > 0
}

// LitersPerHour is the burn rate for a generator of ratedMW producing outputMW.
func (f FuelCurve) LitersPerHour(ratedMW, outputMW float64) float64 {
	return f.InterceptLPerMWh*ratedMW + f.SlopeLPerMWh*outputMW
}

// GeneratorParams defines the diesel generator.
// OnSOCThreshold must be strictly below OffSOCThreshold or the hysteresis
// band collapses; config validation rejects that before any run.
type GeneratorParams struct {
	CapacityMW      float64
	OnSOCThreshold  float64
	OffSOCThreshold float64
	Fuel            FuelCurve
}

// Generator is the stateful diesel generator model with SOC-hysteresis
// ON/OFF control. Like Battery, one instance per simulation run.
type Generator struct {
	Params GeneratorParams

	Mode GeneratorMode

	RuntimeHours       float64
	Starts             int
	EnergyMWh          float64 // rated output accumulated while ON
	EnergyToLoadMWh    float64
	EnergyToBatteryMWh float64
	FuelLiters         float64
}

func NewGenerator(params GeneratorParams) *Generator {
	return &Generator{Params: params, Mode: GenOff}
}

// UpdateState applies the hysteresis transition from the battery SOC as of
// the start of the hour. OFF→ON when soc ≤ on threshold (counted as a start);
// ON→OFF when soc ≥ off threshold. Call exactly once per hour, before dispatch.
func (g *Generator) UpdateState(batterySOC float64) {
	switch g.Mode {
	case GenOff:
		if batterySOC <= g.Params.OnSOCThreshold {
			g.Mode = GenOn
			g.Starts++
		}
	case GenOn:
		if batterySOC >= g.Params.OffSOCThreshold {
			g.Mode = GenOff
		}
	}
}

// Run produces one hour of output: full rated capacity when ON, 0 when OFF.
// No partial-load operation in the base engine.
func (g *Generator) Run() float64 {
	if g.Mode != GenOn {
		return 0
	}
	g.RuntimeHours++
	g.EnergyMWh += g.Params.CapacityMW
	if g.Params.Fuel.Enabled() {
		g.FuelLiters += g.Params.Fuel.LitersPerHour(g.Params.CapacityMW, g.Params.CapacityMW)
	}
	return g.Params.CapacityMW
}

// Attribute records how the hour's output was absorbed. Output beyond
// load + battery headroom is treated as backed off, not wasted: the model
// assumes the unit is either fully utilized or turned off.
func (g *Generator) Attribute(toLoadMWh, toBatteryMWh float64) {
	g.EnergyToLoadMWh += toLoadMWh
	g.EnergyToBatteryMWh += toBatteryMWh
}
