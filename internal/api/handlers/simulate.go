package handlers

import (
	"net/http"

	"hybrid-sizing/internal/api/models"
	"hybrid-sizing/internal/model"
	"hybrid-sizing/internal/sim"

	"github.com/gin-gonic/gin"
)

// SimulateHandler runs single full-horizon simulations.
type SimulateHandler struct{}

func NewSimulateHandler() *SimulateHandler { return &SimulateHandler{} }

// Run handles POST /api/v1/simulate
func (h *SimulateHandler) Run(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	cfg, ok := rejectInvalidConfig(c, req.Config)
	if !ok {
		return
	}

	solarSeries, err := resolveSeries(req.Solar, cfg.HorizonHours)
	if err != nil {
		badRequest(c, "INVALID_SERIES", err.Error())
		return
	}
	loadSeries, err := resolveLoad(req.Load, cfg, len(solarSeries))
	if err != nil {
		badRequest(c, "INVALID_SERIES", err.Error())
		return
	}

	b := model.NewBattery(cfg.Battery.ToModelParams())
	var g *model.Generator
	if cfg.Generator.Enabled() {
		g = model.NewGenerator(cfg.Generator.ToModelParams())
	}

	res, err := sim.New(sim.Policy(cfg.Policy), cfg.HorizonHours).Run(solarSeries, loadSeries, b, g)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SIMULATION_ERROR", Message: err.Error()},
		})
		return
	}

	resp := models.SimulateResponse{
		Status:   "completed",
		Summary:  res.Metrics,
		Warnings: res.Warnings,
	}
	if req.Options.IncludeRecords {
		resp.Records = res.Records
	}
	c.JSON(http.StatusOK, resp)
}
