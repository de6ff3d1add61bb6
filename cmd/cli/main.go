package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"hybrid-sizing/internal/config"
	"hybrid-sizing/internal/data"
	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
	"hybrid-sizing/internal/sizing"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "size-battery":
		cmdSizeBattery(os.Args[2:])
	case "size-generator":
		cmdSizeGenerator(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate       --config config.yaml --solar solar.csv [--load load.csv] --out results/hours.csv")
	fmt.Println("  cli size-battery   --config config.yaml --solar solar.csv --min 10 --max 200 --step 10 [--strategy knee]")
	fmt.Println("  cli size-generator --config config.yaml --solar solar.csv --min-pct 10 --max-pct 100 --step-pct 5")
	fmt.Println("  cli sweep          --config config.yaml --solar solar.csv --containers containers.yaml ...")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes the per-hour trace CSV and prints the aggregate summary")
	fmt.Println("  - solar/load files are hourly MW series (.csv one value per row, or .json array)")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	solarPath := fs.String("solar", "", "Path to hourly solar series")
	loadPath := fs.String("load", "", "Optional path to hourly load series (default: flat target_mw)")
	outPath := fs.String("out", "results/hours.csv", "Output CSV path")
	_ = fs.Parse(args)

	cfg, solarSeries, loadSeries := loadInputs(*cfgPath, *solarPath, *loadPath)

	b := model.NewBattery(cfg.Battery.ToModelParams())
	var g *model.Generator
	if cfg.Generator.Enabled() {
		g = model.NewGenerator(cfg.Generator.ToModelParams())
	}

	res, err := sim.New(sim.Policy(cfg.Policy), cfg.HorizonHours).Run(solarSeries, loadSeries, b, g)
	if err != nil {
		fatal(err)
	}
	for _, w := range res.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		fatal(err)
	}
	if err := sim.WriteRecordsCSV(*outPath, res.Records); err != nil {
		fatal(err)
	}
	fmt.Printf("Wrote %d rows to %s\n\n", len(res.Records), *outPath)
	printMetrics(res.Metrics)
}

func cmdSizeBattery(args []string) {
	fs := flag.NewFlagSet("size-battery", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	solarPath := fs.String("solar", "", "Path to hourly solar series")
	loadPath := fs.String("load", "", "Optional path to hourly load series")
	min := fs.Float64("min", 10, "Smallest battery size, MWh")
	max := fs.Float64("max", 200, "Largest battery size, MWh")
	step := fs.Float64("step", 10, "Size increment, MWh")
	stratName := fs.String("strategy", "marginal", "Selection strategy: marginal | knee")
	workers := fs.Int("workers", 1, "Parallel candidate evaluations")
	_ = fs.Parse(args)

	cfg, solarSeries, loadSeries := loadInputs(*cfgPath, *solarPath, *loadPath)
	runner := newRunner(cfg, solarSeries, loadSeries, *workers)

	var strat sizing.Strategy = sizing.MarginalThreshold{}
	if *stratName == "knee" {
		strat = sizing.HighYieldKnee{}
	}

	res, err := runner.SizeBattery(sizing.Range{Min: *min, Max: *max, Step: *step}, strat)
	if err != nil {
		fatal(err)
	}
	printSweep("size_mwh", res)
}

func cmdSizeGenerator(args []string) {
	fs := flag.NewFlagSet("size-generator", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	solarPath := fs.String("solar", "", "Path to hourly solar series")
	loadPath := fs.String("load", "", "Optional path to hourly load series")
	minPct := fs.Float64("min-pct", 10, "Smallest DG capacity, percent of peak load")
	maxPct := fs.Float64("max-pct", 100, "Largest DG capacity, percent of peak load")
	stepPct := fs.Float64("step-pct", 5, "Sweep increment, percent")
	workers := fs.Int("workers", 1, "Parallel candidate evaluations")
	_ = fs.Parse(args)

	cfg, solarSeries, loadSeries := loadInputs(*cfgPath, *solarPath, *loadPath)
	if !cfg.Generator.Configured() {
		fatal(fmt.Errorf("config has no generator block; size-generator needs at least the SOC thresholds"))
	}
	runner := newRunner(cfg, solarSeries, loadSeries, *workers)

	res, err := runner.SizeGenerator(sizing.Range{Min: *minPct, Max: *maxPct, Step: *stepPct})
	if err != nil {
		fatal(err)
	}
	printSweep("capacity_mw", res)
	if !res.Selected.Achieved {
		fmt.Println("\nNOTE: no tested capacity reached 100% delivery")
	}
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	solarPath := fs.String("solar", "", "Path to normalized per-MW hourly solar profile")
	loadPath := fs.String("load", "", "Optional path to hourly load series")
	containersPath := fs.String("containers", "", "Optional container presets YAML (default: built-ins)")
	solarMin := fs.Float64("solar-min", 10, "Solar sweep min, MW")
	solarMax := fs.Float64("solar-max", 100, "Solar sweep max, MW")
	solarStep := fs.Float64("solar-step", 10, "Solar sweep step, MW")
	bessMin := fs.Float64("bess-min", 20, "BESS sweep min, MWh")
	bessMax := fs.Float64("bess-max", 200, "BESS sweep max, MWh")
	bessStep := fs.Float64("bess-step", 20, "BESS sweep step, MWh")
	genMin := fs.Float64("gen-min", 0, "DG sweep min, MW")
	genMax := fs.Float64("gen-max", 20, "DG sweep max, MW")
	genStep := fs.Float64("gen-step", 5, "DG sweep step, MW")
	minGreen := fs.Float64("min-green", 80, "Minimum green-energy-delivered percent")
	maxWaste := fs.Float64("max-wastage", 30, "Maximum solar wastage percent")
	workers := fs.Int("workers", 4, "Parallel candidate evaluations")
	_ = fs.Parse(args)

	cfg, solarSeries, loadSeries := loadInputs(*cfgPath, *solarPath, *loadPath)
	if *genMax > 0 && !cfg.Generator.Configured() {
		fatal(fmt.Errorf("--gen-max %g sweeps generator capacity, but the config has no generator block with SOC thresholds; add one or pass --gen-max 0", *genMax))
	}
	runner := newRunner(cfg, solarSeries, loadSeries, *workers)

	containers := config.DefaultContainers()
	if *containersPath != "" {
		loaded, err := config.LoadContainers(*containersPath)
		if err != nil {
			fatal(err)
		}
		containers = loaded
	}

	gs := sizing.GridSweep{
		SolarMW:       sizing.Range{Min: *solarMin, Max: *solarMax, Step: *solarStep},
		BatteryMWh:    sizing.Range{Min: *bessMin, Max: *bessMax, Step: *bessStep},
		GenMW:         sizing.Range{Min: *genMin, Max: *genMax, Step: *genStep},
		Containers:    containers,
		MinGreenPct:   *minGreen,
		MaxWastagePct: *maxWaste,
	}
	res, err := gs.Run(runner)
	if err != nil {
		fatal(err)
	}

	for _, adj := range res.Adjustments {
		fmt.Printf("note: %s coarsened from %d candidates (step %g) to %d (step %g)\n",
			adj.Dimension, adj.RequestedCount, adj.RequestedStep, adj.ActualCount, adj.AdjustedStep)
	}
	fmt.Printf("\nTested %d candidates, %d viable (green >= %.0f%%, wastage <= %.0f%%)\n",
		len(res.Outcomes), len(res.Viable), *minGreen, *maxWaste)
	if len(res.Viable) > 0 {
		fmt.Printf("Minimum viable: solar=%.1f MW  bess=%.1f MWh  dg=%.1f MW\n",
			res.MinViableSolarMW, res.MinViableBatteryMWh, res.MinViableGenMW)
		fmt.Printf("\n%-10s %-12s %-10s %-6s %-10s %-9s %-9s %-9s\n",
			"solar_mw", "bess_mwh", "container", "units", "gen_mw", "deliv%", "green%", "waste%")
		for _, o := range res.Viable {
			fmt.Printf("%-10.1f %-12.1f %-10s %-6d %-10.1f %-9.1f %-9.1f %-9.1f\n",
				o.Candidate.SolarMW, o.Candidate.EffectiveMWh, o.Candidate.Container.Name,
				o.Candidate.ContainerCount, o.Candidate.GenMW, o.Metrics.DeliveredPct,
				o.Metrics.GreenDeliveredPct, o.Metrics.WastagePct)
		}
	}
}

func loadInputs(cfgPath, solarPath, loadPath string) (*config.Config, model.HourlySeries, model.HourlySeries) {
	if cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	if solarPath == "" {
		fmt.Println("--solar is required")
		os.Exit(2)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}
	solarSeries, err := data.LoadSeries(solarPath)
	if err != nil {
		fatal(err)
	}
	loadSeries := model.Constant(cfg.TargetMW, len(solarSeries))
	if loadPath != "" {
		loadSeries, err = data.LoadSeries(loadPath)
		if err != nil {
			fatal(err)
		}
	}
	return cfg, solarSeries, loadSeries
}

func newRunner(cfg *config.Config, solarSeries, loadSeries model.HourlySeries, workers int) *sizing.Runner {
	var gp *model.GeneratorParams
	if cfg.Generator.Configured() {
		p := cfg.Generator.ToModelParams()
		gp = &p
	}
	return &sizing.Runner{
		Policy:       sim.Policy(cfg.Policy),
		HorizonHours: cfg.HorizonHours,
		Solar:        solarSeries,
		Load:         loadSeries,
		Battery:      cfg.Battery.ToModelParams(),
		Generator:    gp,
		Workers:      workers,
	}
}

func printSweep(valueName string, res *sizing.SweepResult) {
	if res.Adjustment != nil {
		adj := res.Adjustment
		fmt.Printf("note: %s coarsened from %d candidates (step %g) to %d (step %g)\n\n",
			adj.Dimension, adj.RequestedCount, adj.RequestedStep, adj.ActualCount, adj.AdjustedStep)
	}
	fmt.Printf("%-6s %-12s %-12s %-9s %-9s %-10s\n",
		"pick", valueName, "deliv_hours", "deliv%", "cycles", "waste%")
	for i, o := range res.Outcomes {
		mark := ""
		if i == res.Selected.Index {
			mark = "*"
		}
		fmt.Printf("%-6s %-12.1f %-12d %-9.1f %-9.1f %-10.1f\n",
			mark, o.Value, o.Metrics.DeliveredHours, o.Metrics.DeliveredPct,
			o.Metrics.TotalCycles, o.Metrics.WastagePct)
	}
	fmt.Printf("\n[%s] %s\n", res.Strategy, res.Selected.Justification)
}

func printMetrics(m sim.AggregateMetrics) {
	fmt.Printf("Delivered:   %d/%d hours (%.1f%%), %.0f MWh\n",
		m.DeliveredHours, m.TotalHours, m.DeliveredPct, m.DeliveredEnergyMWh)
	fmt.Printf("Deficits:    %d hours (%d cycle-limited)\n", m.DeficitHours, m.CycleLimitedHours)
	fmt.Printf("Cycles:      %.1f total, %.2f/day avg, %.2f/day max, degradation %.2f%%\n",
		m.TotalCycles, m.AvgDailyCycles, m.MaxDailyCycles, m.DegradationPct)
	fmt.Printf("Solar:       %.0f MWh generated, %.0f to load, %.0f charged, %.0f wasted (%.1f%%)\n",
		m.SolarGeneratedMWh, m.SolarToLoadMWh, m.SolarChargedMWh, m.SolarWastedMWh, m.WastagePct)
	fmt.Printf("Green:       %.1f%% of delivered energy\n", m.GreenDeliveredPct)
	if m.GenRuntimeHours > 0 || m.GenStarts > 0 {
		fmt.Printf("Generator:   %.0f h runtime, %d starts, %.0f MWh (%.0f to load, %.0f to battery), %.0f L fuel\n",
			m.GenRuntimeHours, m.GenStarts, m.GenEnergyMWh, m.GenEnergyToLoadMWh,
			m.GenEnergyToBatteryMWh, m.FuelLiters)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
