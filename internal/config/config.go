package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML preset.
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string `yaml:"battery_file"`

	Policy       string          `yaml:"policy"` // "binary_target" or "merit_order"
	HorizonHours int             `yaml:"horizon_hours"`
	TargetMW     float64         `yaml:"target_mw"`
	Battery      BatteryConfig   `yaml:"battery"`
	Generator    GeneratorConfig `yaml:"generator"`
}

type BatteryConfig struct {
	Name                string  `yaml:"name"`
	EnergyCapacityMWh   float64 `yaml:"energy_capacity_mwh"`
	CRateCharge         float64 `yaml:"c_rate_charge"`
	CRateDischarge      float64 `yaml:"c_rate_discharge"`
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency"`
	MinSOC              float64 `yaml:"min_soc"`
	MaxSOC              float64 `yaml:"max_soc"`
	InitialSOC          float64 `yaml:"initial_soc"`
	MaxDailyCycles      float64 `yaml:"max_daily_cycles"`
	DegradationPerCycle float64 `yaml:"degradation_per_cycle"`
}

type GeneratorConfig struct {
	CapacityMW      float64         `yaml:"capacity_mw"`
	OnSOCThreshold  float64         `yaml:"on_soc_threshold"`
	OffSOCThreshold float64         `yaml:"off_soc_threshold"`
	FuelCurve       FuelCurveConfig `yaml:"fuel_curve"`
}

type FuelCurveConfig struct {
	InterceptLPerMWh float64 `yaml:"intercept_l_per_mwh"`
	SlopeLPerMWh     float64 `yaml:"slope_l_per_mwh"`
}

// Enabled reports whether a generator with rated capacity takes part in
// dispatch.
func (g GeneratorConfig) Enabled() bool { return g.CapacityMW > 0 }

// Configured reports whether the block defines a generator at all: a rated
// capacity, or a thresholds-only block whose capacity a sizing sweep will
// supply per candidate.
func (g GeneratorConfig) Configured() bool {
	return g.CapacityMW > 0 || g.OnSOCThreshold > 0 || g.OffSOCThreshold > 0
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If initial_soc is not provided, default it to min_soc: the battery
	// starts empty of dispatchable inventory.
	if c.Battery.InitialSOC == 0 {
		c.Battery.InitialSOC = c.Battery.MinSOC
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := loadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	if c.Policy == "" {
		c.Policy = string(sim.PolicyBinaryTarget)
	}
	if c.HorizonHours == 0 {
		c.HorizonHours = model.HoursPerYear
	}
	return &c, nil
}

// Violations checks every numeric precondition independently and returns the
// full list of problems, not just the first, so a caller can present them all
// in one pass. An empty slice means the configuration is valid.
func (c *Config) Violations() []string {
	var v []string

	switch sim.Policy(c.Policy) {
	case sim.PolicyBinaryTarget, sim.PolicyMeritOrder:
	default:
		v = append(v, fmt.Sprintf("policy must be %q or %q, got %q",
			sim.PolicyBinaryTarget, sim.PolicyMeritOrder, c.Policy))
	}
	if c.HorizonHours <= 0 {
		v = append(v, fmt.Sprintf("horizon_hours must be > 0, got %d", c.HorizonHours))
	}
	if c.TargetMW < 0 {
		v = append(v, fmt.Sprintf("target_mw must be >= 0, got %g", c.TargetMW))
	}

	b := c.Battery
	if b.EnergyCapacityMWh <= 0 {
		v = append(v, fmt.Sprintf("battery energy_capacity_mwh must be > 0, got %g", b.EnergyCapacityMWh))
	}
	if b.CRateCharge <= 0 {
		v = append(v, fmt.Sprintf("battery c_rate_charge must be > 0, got %g", b.CRateCharge))
	}
	if b.CRateDischarge <= 0 {
		v = append(v, fmt.Sprintf("battery c_rate_discharge must be > 0, got %g", b.CRateDischarge))
	}
	if b.RoundTripEfficiency <= 0 || b.RoundTripEfficiency > 1 {
		v = append(v, fmt.Sprintf("battery round_trip_efficiency must be in (0, 1], got %g", b.RoundTripEfficiency))
	}
	if b.MinSOC < 0 || b.MinSOC > 1 {
		v = append(v, fmt.Sprintf("battery min_soc must be in [0, 1], got %g", b.MinSOC))
	}
	if b.MaxSOC < 0 || b.MaxSOC > 1 {
		v = append(v, fmt.Sprintf("battery max_soc must be in [0, 1], got %g", b.MaxSOC))
	}
	if b.MinSOC >= b.MaxSOC {
		v = append(v, fmt.Sprintf("battery min_soc %g must be below max_soc %g", b.MinSOC, b.MaxSOC))
	}
	if b.InitialSOC < b.MinSOC || b.InitialSOC > b.MaxSOC {
		v = append(v, fmt.Sprintf("battery initial_soc %g must be within [min_soc %g, max_soc %g]", b.InitialSOC, b.MinSOC, b.MaxSOC))
	}
	if b.MaxDailyCycles < 0 {
		v = append(v, fmt.Sprintf("battery max_daily_cycles must be >= 0, got %g", b.MaxDailyCycles))
	}
	if b.DegradationPerCycle < 0 {
		v = append(v, fmt.Sprintf("battery degradation_per_cycle must be >= 0, got %g", b.DegradationPerCycle))
	}

	if g := c.Generator; g.Configured() {
		if g.OnSOCThreshold < 0 || g.OnSOCThreshold > 1 {
			v = append(v, fmt.Sprintf("generator on_soc_threshold must be in [0, 1], got %g", g.OnSOCThreshold))
		}
		if g.OffSOCThreshold < 0 || g.OffSOCThreshold > 1 {
			v = append(v, fmt.Sprintf("generator off_soc_threshold must be in [0, 1], got %g", g.OffSOCThreshold))
		}
		// Inverted thresholds collapse the hysteresis band into same-hour
		// chattering; refuse to simulate.
		if g.OnSOCThreshold >= g.OffSOCThreshold {
			v = append(v, fmt.Sprintf("generator on_soc_threshold %g must be strictly below off_soc_threshold %g", g.OnSOCThreshold, g.OffSOCThreshold))
		}
		if g.FuelCurve.InterceptLPerMWh < 0 || g.FuelCurve.SlopeLPerMWh < 0 {
			v = append(v, "generator fuel_curve coefficients must be >= 0")
		}
	}

	return v
}

// Validate aggregates all violations into one error. Simulation must refuse
// to start while this returns non-nil; no simulation state exists yet.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if v := c.Violations(); len(v) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(v, "\n  - "))
	}
	return nil
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		EnergyCapacityMWh:   b.EnergyCapacityMWh,
		CRateCharge:         b.CRateCharge,
		CRateDischarge:      b.CRateDischarge,
		RoundTripEfficiency: b.RoundTripEfficiency,
		MinSOC:              b.MinSOC,
		MaxSOC:              b.MaxSOC,
		InitialSOC:          b.InitialSOC,
		MaxDailyCycles:      b.MaxDailyCycles,
		DegradationPerCycle: b.DegradationPerCycle,
	}
}

func (g GeneratorConfig) ToModelParams() model.GeneratorParams {
	return model.GeneratorParams{
		CapacityMW:      g.CapacityMW,
		OnSOCThreshold:  g.OnSOCThreshold,
		OffSOCThreshold: g.OffSOCThreshold,
		Fuel: model.FuelCurve{
			InterceptLPerMWh: g.FuelCurve.InterceptLPerMWh,
			SlopeLPerMWh:     g.FuelCurve.SlopeLPerMWh,
		},
	}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base. Used when a
// battery preset file is loaded and then tweaked per run.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.EnergyCapacityMWh != 0 {
		out.EnergyCapacityMWh = override.EnergyCapacityMWh
	}
	if override.CRateCharge != 0 {
		out.CRateCharge = override.CRateCharge
	}
	if override.CRateDischarge != 0 {
		out.CRateDischarge = override.CRateDischarge
	}
	if override.RoundTripEfficiency != 0 {
		out.RoundTripEfficiency = override.RoundTripEfficiency
	}
	if override.MinSOC != 0 {
		out.MinSOC = override.MinSOC
	}
	if override.MaxSOC != 0 {
		out.MaxSOC = override.MaxSOC
	}
	if override.InitialSOC != 0 {
		out.InitialSOC = override.InitialSOC
	}
	if override.MaxDailyCycles != 0 {
		out.MaxDailyCycles = override.MaxDailyCycles
	}
	if override.DegradationPerCycle != 0 {
		out.DegradationPerCycle = override.DegradationPerCycle
	}
	return out
}
