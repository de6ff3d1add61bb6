package sim

import "hybrid-sizing/internal/model"

// Policy selects the per-hour dispatch rule.
type Policy string

const (
	// PolicyBinaryTarget delivers exactly the target power or nothing.
	PolicyBinaryTarget Policy = "binary_target"
	// PolicyMeritOrder serves a continuous load in merit-order priority,
	// optionally backed by a diesel generator.
	PolicyMeritOrder Policy = "merit_order"
)

// Shortfall cause labels. Stable strings, intended for CSV output.
const (
	CauseResourceShortfall = "RESOURCE_SHORTFALL"
	CauseCycleLimit        = "CYCLE_LIMIT"
)

// HourRecord is one row of per-hour output: the primary artifact for "what
// happened" in a simulation. Append-only; never mutated after creation.
type HourRecord struct {
	Hour int

	SolarMW  float64
	TargetMW float64 // target power (binary) or load (merit order)
	GenMW    float64 // generator output this hour (rated capacity or 0)

	// BatteryMW is signed: positive = discharge to load, negative = charge.
	BatteryMW float64
	SOC       float64 // state of charge after the hour's dispatch

	DeliveredMW float64
	DeficitMW   float64

	SolarToLoadMWh    float64
	SolarToBatteryMWh float64 // AC-side energy absorbed from solar
	SolarWastedMWh    float64
	GenToLoadMWh      float64
	GenToBatteryMWh   float64

	BatteryMode model.BatteryMode
	GenMode     model.GeneratorMode

	// Cause is set on non-delivering hours: resource shortfall, or the
	// daily-cycle cap blocking an otherwise feasible discharge.
	Cause string
}

// Delivered reports whether the hour met its target in full.
func (r HourRecord) Delivered() bool {
	return r.DeficitMW <= deliveryTolerance
}

// Result is the output of one full-horizon simulation run.
type Result struct {
	Records  []HourRecord
	Metrics  AggregateMetrics
	Warnings []string

	// Terminal model state, for metrics drill-down by callers.
	Battery   *model.Battery
	Generator *model.Generator
}
