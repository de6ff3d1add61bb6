package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-sizing/internal/api/models"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	sim := NewSimulateHandler()
	siz := NewSizingHandler(nil)
	v1 := r.Group("/api/v1")
	{
		v1.POST("/simulate", sim.Run)
		v1.POST("/size/battery", siz.SizeBattery)
		v1.POST("/size/generator", siz.SizeGenerator)
		v1.POST("/sweep", siz.Sweep)
		v1.GET("/containers", siz.ListContainers)
	}
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validConfig() models.SimulationConfig {
	return models.SimulationConfig{
		Policy:       "binary_target",
		HorizonHours: 48,
		TargetMW:     25,
		Battery: models.BatteryConfig{
			EnergyCapacityMWh:   100,
			CRateCharge:         0.5,
			CRateDischarge:      0.5,
			RoundTripEfficiency: 0.9,
			MinSOC:              0.05,
			MaxSOC:              0.95,
			InitialSOC:          0.5,
		},
	}
}

func daylightValues(days int) []float64 {
	out := make([]float64, days*24)
	for h := range out {
		if h%24 >= 7 && h%24 <= 17 {
			out[h] = 50
		}
	}
	return out
}

func TestSimulateEndpoint(t *testing.T) {
	r := testRouter()

	w := postJSON(t, r, "/api/v1/simulate", models.SimulateRequest{
		Config:  validConfig(),
		Solar:   models.SeriesSpec{Values: daylightValues(2)},
		Options: models.SimulateOptions{IncludeRecords: true},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 48, resp.Summary.TotalHours)
	assert.Len(t, resp.Records, 48)
}

func TestSimulateOmitsRecordsByDefault(t *testing.T) {
	w := postJSON(t, testRouter(), "/api/v1/simulate", models.SimulateRequest{
		Config: validConfig(),
		Solar:  models.SeriesSpec{Values: daylightValues(1)},
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
}

func TestSimulateSyntheticSolar(t *testing.T) {
	cfg := validConfig()
	cfg.HorizonHours = 72
	w := postJSON(t, testRouter(), "/api/v1/simulate", models.SimulateRequest{
		Config: cfg,
		Solar:  models.SeriesSpec{Synthetic: &models.SyntheticSpec{PeakMW: 60, Hours: 72}},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 72, resp.Summary.TotalHours)
}

func TestSimulateRejectsInvalidConfigWithAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Battery.EnergyCapacityMWh = -1
	cfg.Battery.RoundTripEfficiency = 2
	cfg.Battery.MinSOC = 0.9
	cfg.Battery.MaxSOC = 0.1

	w := postJSON(t, testRouter(), "/api/v1/simulate", models.SimulateRequest{
		Config: cfg,
		Solar:  models.SeriesSpec{Values: daylightValues(1)},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
	violations, ok := resp.Error.Details["violations"].([]interface{})
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(violations), 3, "every violation surfaced in one response")
}

func TestSimulateRequiresSomeSolarSource(t *testing.T) {
	w := postJSON(t, testRouter(), "/api/v1/simulate", models.SimulateRequest{
		Config: validConfig(),
		Solar:  models.SeriesSpec{},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_SERIES", resp.Error.Code)
}

func TestSizeBatteryEndpoint(t *testing.T) {
	w := postJSON(t, testRouter(), "/api/v1/size/battery", models.SizeBatteryRequest{
		Config:   validConfig(),
		Solar:    models.SeriesSpec{Values: daylightValues(2)},
		Sizes:    models.RangeSpec{Min: 20, Max: 100, Step: 40},
		Strategy: "high_yield_knee",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SizingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "high_yield_knee", resp.Strategy)
	assert.Len(t, resp.Candidates, 3)
	require.NotNil(t, resp.Selected)
}

func TestSizeGeneratorRequiresGeneratorBlock(t *testing.T) {
	w := postJSON(t, testRouter(), "/api/v1/size/generator", models.SizeGeneratorRequest{
		Config:   validConfig(),
		Solar:    models.SeriesSpec{Values: daylightValues(1)},
		PctRange: models.RangeSpec{Min: 10, Max: 100, Step: 10},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSweepEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Policy = "merit_order"
	cfg.HorizonHours = 48
	cfg.Generator = models.GeneratorConfig{
		CapacityMW:      10,
		OnSOCThreshold:  0.2,
		OffSOCThreshold: 0.8,
	}
	// Normalized per-MW profile.
	profile := make([]float64, 48)
	for h := range profile {
		if h%24 >= 7 && h%24 <= 17 {
			profile[h] = 1
		}
	}

	w := postJSON(t, testRouter(), "/api/v1/sweep", models.SweepRequest{
		Config:        cfg,
		Solar:         models.SeriesSpec{Values: profile},
		SolarMW:       models.RangeSpec{Min: 20, Max: 60, Step: 40},
		BatteryMWh:    models.RangeSpec{Min: 50, Max: 50, Step: 50},
		GenMW:         models.RangeSpec{Min: 0, Max: 10, Step: 10},
		Containers:    []string{"lfp-2h"},
		MaxWastagePct: 100,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.GridSweepResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Len(t, resp.Outcomes, 4)
}

func TestSweepUnknownContainer(t *testing.T) {
	w := postJSON(t, testRouter(), "/api/v1/sweep", models.SweepRequest{
		Config:     validConfig(),
		Solar:      models.SeriesSpec{Values: daylightValues(1)},
		SolarMW:    models.RangeSpec{Min: 20, Max: 20, Step: 20},
		BatteryMWh: models.RangeSpec{Min: 50, Max: 50, Step: 50},
		GenMW:      models.RangeSpec{Min: 0, Max: 0, Step: 1},
		Containers: []string{"does-not-exist"},
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListContainers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/containers", nil)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.ContainerListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Containers)
}
