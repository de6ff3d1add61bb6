package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hybrid-sizing/internal/config"
	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
	"hybrid-sizing/internal/solar"
)

// Demo:
// - Generate a synthetic clear-sky solar year
// - Instantiate battery + generator models
// - Run one full-horizon simulation to show how the pieces fit together
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	peak := flag.Float64("peak", 60, "Synthetic solar peak, MW")
	n := flag.Int("n", 48, "Number of hour records to print")
	outCSV := flag.String("out", "", "Optional path to write the hour trace CSV")
	flag.Parse()

	// Defaults (can be overridden via --config).
	cfg := &config.Config{
		Policy:       string(sim.PolicyMeritOrder),
		HorizonHours: model.HoursPerYear,
		TargetMW:     25,
		Battery: config.BatteryConfig{
			EnergyCapacityMWh:   100,
			CRateCharge:         0.5,
			CRateDischarge:      0.5,
			RoundTripEfficiency: 0.90,
			MinSOC:              0.05,
			MaxSOC:              0.95,
			InitialSOC:          0.50,
			MaxDailyCycles:      2,
			DegradationPerCycle: 0.0001,
		},
		Generator: config.GeneratorConfig{
			CapacityMW:      15,
			OnSOCThreshold:  0.20,
			OffSOCThreshold: 0.80,
			FuelCurve: config.FuelCurveConfig{
				InterceptLPerMWh: 84.15,
				SlopeLPerMWh:     246,
			},
		},
	}
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	} else if err := cfg.Validate(); err != nil {
		panic(err)
	}

	solarSeries := solar.ClearSky(solar.ProfileParams{
		PeakMW:        *peak,
		SeasonalSwing: 0.5,
		CloudSeed:     42,
	}, cfg.HorizonHours)
	loadSeries := model.Constant(cfg.TargetMW, cfg.HorizonHours)

	b := model.NewBattery(cfg.Battery.ToModelParams())
	var g *model.Generator
	if cfg.Generator.Enabled() {
		g = model.NewGenerator(cfg.Generator.ToModelParams())
	}

	res, err := sim.New(sim.Policy(cfg.Policy), cfg.HorizonHours).Run(solarSeries, loadSeries, b, g)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulated %d hours, policy=%s, target=%.1f MW\n\n", len(res.Records), cfg.Policy, cfg.TargetMW)

	for i := 0; i < min(*n, len(res.Records)); i++ {
		r := res.Records[i]
		fmt.Printf(
			"h=%04d solar=%6.2f gen=%5.1f batt=%7.2f soc=%.3f delivered=%6.2f deficit=%6.2f %-11s %-3s %s\n",
			r.Hour, r.SolarMW, r.GenMW, r.BatteryMW, r.SOC,
			r.DeliveredMW, r.DeficitMW, string(r.BatteryMode), string(r.GenMode), r.Cause,
		)
	}

	m := res.Metrics
	fmt.Printf("\nDelivered %d/%d hours (%.1f%%), %.0f MWh\n", m.DeliveredHours, m.TotalHours, m.DeliveredPct, m.DeliveredEnergyMWh)
	fmt.Printf("Cycles=%.1f (avg %.2f/day, max %.2f/day), degradation=%.2f%%\n", m.TotalCycles, m.AvgDailyCycles, m.MaxDailyCycles, m.DegradationPct)
	fmt.Printf("Solar wastage=%.1f%%, green delivered=%.1f%%\n", m.WastagePct, m.GreenDeliveredPct)
	fmt.Printf("DG: runtime=%.0f h, starts=%d, fuel=%.0f L\n", m.GenRuntimeHours, m.GenStarts, m.FuelLiters)

	if *outCSV != "" {
		if err := os.MkdirAll(filepath.Dir(*outCSV), 0o755); err != nil {
			panic(err)
		}
		if err := sim.WriteRecordsCSV(*outCSV, res.Records); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(res.Records), *outCSV)
	}
}
