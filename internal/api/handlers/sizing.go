package handlers

import (
	"net/http"

	"hybrid-sizing/internal/api/models"
	"hybrid-sizing/internal/config"
	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"
	"hybrid-sizing/internal/sizing"

	"github.com/gin-gonic/gin"
)

// SizingHandler runs capacity sweeps and the multi-dimensional grid sweep.
type SizingHandler struct {
	Containers []sizing.ContainerSpec
}

func NewSizingHandler(containers []sizing.ContainerSpec) *SizingHandler {
	if len(containers) == 0 {
		containers = config.DefaultContainers()
	}
	return &SizingHandler{Containers: containers}
}

func (h *SizingHandler) runner(cfg *config.Config, solarSeries, loadSeries model.HourlySeries, workers int) *sizing.Runner {
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

// SizeBattery handles POST /api/v1/size/battery
func (h *SizingHandler) SizeBattery(c *gin.Context) {
	var req models.SizeBatteryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	cfg, ok := rejectInvalidConfig(c, req.Config)
	if !ok {
		return
	}
	solarSeries, loadSeries, ok := h.resolve(c, req.Solar, req.Load, cfg)
	if !ok {
		return
	}

	var strat sizing.Strategy = sizing.MarginalThreshold{}
	if req.Strategy == "high_yield_knee" {
		strat = sizing.HighYieldKnee{}
	}

	res, err := h.runner(cfg, solarSeries, loadSeries, req.Workers).SizeBattery(toRange(req.Sizes), strat)
	if err != nil {
		badRequest(c, "SWEEP_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.NewSizingResponse(res))
}

// SizeGenerator handles POST /api/v1/size/generator
func (h *SizingHandler) SizeGenerator(c *gin.Context) {
	var req models.SizeGeneratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	cfg, ok := rejectInvalidConfig(c, req.Config)
	if !ok {
		return
	}
	if !cfg.Generator.Configured() {
		badRequest(c, "INVALID_CONFIG", "generator sizing requires a generator block with SOC thresholds")
		return
	}
	solarSeries, loadSeries, ok := h.resolve(c, req.Solar, req.Load, cfg)
	if !ok {
		return
	}

	res, err := h.runner(cfg, solarSeries, loadSeries, req.Workers).SizeGenerator(toRange(req.PctRange))
	if err != nil {
		badRequest(c, "SWEEP_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.NewSizingResponse(res))
}

// Sweep handles POST /api/v1/sweep
func (h *SizingHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}
	cfg, ok := rejectInvalidConfig(c, req.Config)
	if !ok {
		return
	}
	solarSeries, loadSeries, ok := h.resolve(c, req.Solar, req.Load, cfg)
	if !ok {
		return
	}

	containers := h.selectContainers(req.Containers)
	if len(containers) == 0 {
		badRequest(c, "INVALID_REQUEST", "no matching container presets")
		return
	}

	gs := sizing.GridSweep{
		SolarMW:       toRange(req.SolarMW),
		BatteryMWh:    toRange(req.BatteryMWh),
		GenMW:         toRange(req.GenMW),
		Containers:    containers,
		MinGreenPct:   req.MinGreenPct,
		MaxWastagePct: req.MaxWastagePct,
	}
	res, err := gs.Run(h.runner(cfg, solarSeries, loadSeries, req.Workers))
	if err != nil {
		badRequest(c, "SWEEP_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, models.NewGridSweepResponse(res))
}

// ListContainers handles GET /api/v1/containers
func (h *SizingHandler) ListContainers(c *gin.Context) {
	c.JSON(http.StatusOK, models.ContainerListResponse{Containers: h.Containers})
}

func (h *SizingHandler) resolve(c *gin.Context, solarSpec models.SeriesSpec, loadSpec *models.SeriesSpec, cfg *config.Config) (model.HourlySeries, model.HourlySeries, bool) {
	solarSeries, err := resolveSeries(solarSpec, cfg.HorizonHours)
	if err != nil {
		badRequest(c, "INVALID_SERIES", err.Error())
		return nil, nil, false
	}
	loadSeries, err := resolveLoad(loadSpec, cfg, len(solarSeries))
	if err != nil {
		badRequest(c, "INVALID_SERIES", err.Error())
		return nil, nil, false
	}
	return solarSeries, loadSeries, true
}

func (h *SizingHandler) selectContainers(names []string) []sizing.ContainerSpec {
	if len(names) == 0 {
		return h.Containers
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []sizing.ContainerSpec
	for _, ct := range h.Containers {
		if wanted[ct.Name] {
			out = append(out, ct)
		}
	}
	return out
}
