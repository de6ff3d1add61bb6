package models

// SimulationConfig mirrors config.Config for JSON requests.
type SimulationConfig struct {
	Policy       string          `json:"policy,omitempty"` // default "binary_target"
	HorizonHours int             `json:"horizon_hours,omitempty"`
	TargetMW     float64         `json:"target_mw,omitempty"`
	Battery      BatteryConfig   `json:"battery" binding:"required"`
	Generator    GeneratorConfig `json:"generator,omitempty"`
}

// BatteryConfig defines battery parameters.
type BatteryConfig struct {
	Name                string  `json:"name,omitempty"`
	EnergyCapacityMWh   float64 `json:"energy_capacity_mwh"`
	CRateCharge         float64 `json:"c_rate_charge"`
	CRateDischarge      float64 `json:"c_rate_discharge"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	MinSOC              float64 `json:"min_soc"`
	MaxSOC              float64 `json:"max_soc"`
	InitialSOC          float64 `json:"initial_soc,omitempty"`
	MaxDailyCycles      float64 `json:"max_daily_cycles,omitempty"`
	DegradationPerCycle float64 `json:"degradation_per_cycle,omitempty"`
}

// GeneratorConfig defines the optional diesel generator.
type GeneratorConfig struct {
	CapacityMW       float64 `json:"capacity_mw,omitempty"`
	OnSOCThreshold   float64 `json:"on_soc_threshold,omitempty"`
	OffSOCThreshold  float64 `json:"off_soc_threshold,omitempty"`
	FuelInterceptLMW float64 `json:"fuel_intercept_l_per_mwh,omitempty"`
	FuelSlopeLMWh    float64 `json:"fuel_slope_l_per_mwh,omitempty"`
}

// SeriesSpec supplies an hourly series either inline or synthetically.
type SeriesSpec struct {
	Values    []float64      `json:"values,omitempty"`
	Synthetic *SyntheticSpec `json:"synthetic,omitempty"`
}

// SyntheticSpec generates a deterministic clear-sky profile server-side,
// mostly for trying the API without a measured year of data.
type SyntheticSpec struct {
	PeakMW        float64 `json:"peak_mw"`
	SeasonalSwing float64 `json:"seasonal_swing,omitempty"`
	CloudSeed     int64   `json:"cloud_seed,omitempty"`
	Hours         int     `json:"hours,omitempty"`
}

// RangeSpec is a swept dimension.
type RangeSpec struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// SimulateRequest represents the request body for running one simulation.
type SimulateRequest struct {
	Config  SimulationConfig `json:"config" binding:"required"`
	Solar   SeriesSpec       `json:"solar" binding:"required"`
	Load    *SeriesSpec      `json:"load,omitempty"` // defaults to flat target_mw
	Options SimulateOptions  `json:"options,omitempty"`
}

// SimulateOptions contains optional simulation parameters.
type SimulateOptions struct {
	IncludeRecords bool `json:"include_records,omitempty"` // default: false
}

// SizeBatteryRequest sweeps battery energy capacity.
type SizeBatteryRequest struct {
	Config   SimulationConfig `json:"config" binding:"required"`
	Solar    SeriesSpec       `json:"solar" binding:"required"`
	Load     *SeriesSpec      `json:"load,omitempty"`
	Sizes    RangeSpec        `json:"sizes" binding:"required"`
	Strategy string           `json:"strategy,omitempty"` // "marginal_threshold" (default) or "high_yield_knee"
	Workers  int              `json:"workers,omitempty"`
}

// SizeGeneratorRequest sweeps DG capacity as a percentage of peak load.
type SizeGeneratorRequest struct {
	Config   SimulationConfig `json:"config" binding:"required"`
	Solar    SeriesSpec       `json:"solar" binding:"required"`
	Load     *SeriesSpec      `json:"load,omitempty"`
	PctRange RangeSpec        `json:"pct_range" binding:"required"`
	Workers  int              `json:"workers,omitempty"`
}

// SweepRequest runs the solar × BESS × container × DG grid sweep.
type SweepRequest struct {
	Config     SimulationConfig `json:"config" binding:"required"`
	Solar      SeriesSpec       `json:"solar" binding:"required"` // normalized per-MW profile
	Load       *SeriesSpec      `json:"load,omitempty"`
	SolarMW    RangeSpec        `json:"solar_mw" binding:"required"`
	BatteryMWh RangeSpec        `json:"battery_mwh" binding:"required"`
	GenMW      RangeSpec        `json:"gen_mw" binding:"required"`
	Containers []string         `json:"containers,omitempty"` // preset names; empty = all

	MinGreenPct   float64 `json:"min_green_pct,omitempty"`
	MaxWastagePct float64 `json:"max_wastage_pct,omitempty"`
	Workers       int     `json:"workers,omitempty"`
}
