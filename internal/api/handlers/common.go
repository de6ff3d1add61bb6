package handlers

import (
	"fmt"
	"net/http"

	"hybrid-sizing/internal/api/models"
	"hybrid-sizing/internal/config"
	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
	"hybrid-sizing/internal/sizing"
	"hybrid-sizing/internal/solar"

	"github.com/gin-gonic/gin"
)

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

// rejectInvalidConfig converts the request config, runs full validation and,
// on failure, reports every violation at once. Returns ok=false after
// responding.
func rejectInvalidConfig(c *gin.Context, mc models.SimulationConfig) (*config.Config, bool) {
	cfg := toConfig(mc)
	if violations := cfg.Violations(); len(violations) > 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: fmt.Sprintf("configuration has %d violation(s)", len(violations)),
				Details: map[string]interface{}{"violations": violations},
			},
		})
		return nil, false
	}
	return cfg, true
}

func toConfig(mc models.SimulationConfig) *config.Config {
	cfg := &config.Config{
		Policy:       mc.Policy,
		HorizonHours: mc.HorizonHours,
		TargetMW:     mc.TargetMW,
		Battery: config.BatteryConfig{
			Name:                mc.Battery.Name,
			EnergyCapacityMWh:   mc.Battery.EnergyCapacityMWh,
			CRateCharge:         mc.Battery.CRateCharge,
			CRateDischarge:      mc.Battery.CRateDischarge,
			RoundTripEfficiency: mc.Battery.RoundTripEfficiency,
			MinSOC:              mc.Battery.MinSOC,
			MaxSOC:              mc.Battery.MaxSOC,
			InitialSOC:          mc.Battery.InitialSOC,
			MaxDailyCycles:      mc.Battery.MaxDailyCycles,
			DegradationPerCycle: mc.Battery.DegradationPerCycle,
		},
		Generator: config.GeneratorConfig{
			CapacityMW:      mc.Generator.CapacityMW,
			OnSOCThreshold:  mc.Generator.OnSOCThreshold,
			OffSOCThreshold: mc.Generator.OffSOCThreshold,
			FuelCurve: config.FuelCurveConfig{
				InterceptLPerMWh: mc.Generator.FuelInterceptLMW,
				SlopeLPerMWh:     mc.Generator.FuelSlopeLMWh,
			},
		},
	}
	if cfg.Policy == "" {
		cfg.Policy = string(sim.PolicyBinaryTarget)
	}
	if cfg.HorizonHours == 0 {
		cfg.HorizonHours = model.HoursPerYear
	}
	if cfg.Battery.InitialSOC == 0 {
		cfg.Battery.InitialSOC = cfg.Battery.MinSOC
	}
	return cfg
}

// resolveSeries materializes a series spec: inline values win over synthetic.
func resolveSeries(spec models.SeriesSpec, defaultHours int) (model.HourlySeries, error) {
	if len(spec.Values) > 0 {
		return model.HourlySeries(spec.Values), nil
	}
	if s := spec.Synthetic; s != nil {
		hours := s.Hours
		if hours <= 0 {
			hours = defaultHours
		}
		return solar.ClearSky(solar.ProfileParams{
			PeakMW:        s.PeakMW,
			SeasonalSwing: s.SeasonalSwing,
			CloudSeed:     s.CloudSeed,
		}, hours), nil
	}
	return nil, fmt.Errorf("series requires either values or a synthetic spec")
}

// resolveLoad returns the load series, defaulting to a flat target.
func resolveLoad(spec *models.SeriesSpec, cfg *config.Config, hours int) (model.HourlySeries, error) {
	if spec == nil {
		return model.Constant(cfg.TargetMW, hours), nil
	}
	return resolveSeries(*spec, hours)
}

func toRange(r models.RangeSpec) sizing.Range {
	return sizing.Range{Min: r.Min, Max: r.Max, Step: r.Step}
}
