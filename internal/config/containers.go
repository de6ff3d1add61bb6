package config

import (
	"fmt"
	"os"

	"hybrid-sizing/internal/sizing"

	"gopkg.in/yaml.v3"
)

type containerFileWrapper struct {
	Containers []sizing.ContainerSpec `yaml:"containers"`
}

// LoadContainers reads storage-container presets for the multi-dimensional
// sweep. Each entry names a container product and the electrical limits it
// imposes on the battery built from it.
func LoadContainers(path string) ([]sizing.ContainerSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w containerFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if len(w.Containers) == 0 {
		return nil, fmt.Errorf("no containers defined in %s", path)
	}
	for i, ct := range w.Containers {
		if ct.Name == "" {
			return nil, fmt.Errorf("container %d has no name", i)
		}
		if ct.EnergyMWh <= 0 {
			return nil, fmt.Errorf("container %q energy_mwh must be > 0, got %g", ct.Name, ct.EnergyMWh)
		}
		if ct.CRateCharge <= 0 || ct.CRateDischarge <= 0 {
			return nil, fmt.Errorf("container %q c-rates must be > 0", ct.Name)
		}
		if ct.RoundTripEfficiency < 0 || ct.RoundTripEfficiency > 1 {
			return nil, fmt.Errorf("container %q round_trip_efficiency must be in [0, 1], got %g", ct.Name, ct.RoundTripEfficiency)
		}
	}
	return w.Containers, nil
}

// DefaultContainers are the built-in presets used when no container file is
// given. Figures are typical for current LFP container products.
func DefaultContainers() []sizing.ContainerSpec {
	return []sizing.ContainerSpec{
		{Name: "lfp-2h", EnergyMWh: 5.0, CRateCharge: 0.5, CRateDischarge: 0.5, RoundTripEfficiency: 0.88},
		{Name: "lfp-4h", EnergyMWh: 5.0, CRateCharge: 0.25, CRateDischarge: 0.25, RoundTripEfficiency: 0.90},
	}
}
