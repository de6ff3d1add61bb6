package models

import (
	"math"

	"hybrid-sizing/internal/sim"
	"hybrid-sizing/internal/sizing"
)

// SimulateResponse represents the response from one simulation run.
type SimulateResponse struct {
	Status   string               `json:"status"`
	Summary  sim.AggregateMetrics `json:"summary"`
	Warnings []string             `json:"warnings,omitempty"`
	Records  []sim.HourRecord     `json:"records,omitempty"`
}

// SweepCandidate is one tested size with its metrics.
type SweepCandidate struct {
	Value    float64              `json:"value"`
	Metrics  sim.AggregateMetrics `json:"metrics"`
	Selected bool                 `json:"selected"`
}

// SizingResponse represents the response from a one-dimensional sweep.
type SizingResponse struct {
	Status        string             `json:"status"`
	Strategy      string             `json:"strategy"`
	Selected      *SweepCandidate    `json:"selected,omitempty"`
	Achieved      bool               `json:"achieved"`
	Justification string             `json:"justification"`
	Candidates    []SweepCandidate   `json:"candidates"`
	Adjustment    *sizing.Adjustment `json:"adjustment,omitempty"`
}

// GridSweepResponse wraps the multi-dimensional sweep result. The minima are
// pointers because they are undefined (null) when no candidate is viable;
// sizing.GridResult carries them as NaN, which JSON cannot represent.
type GridSweepResponse struct {
	Status   string               `json:"status"`
	Outcomes []sizing.GridOutcome `json:"outcomes"`
	Viable   []sizing.GridOutcome `json:"viable"`

	MinViableSolarMW    *float64 `json:"min_viable_solar_mw"`
	MinViableBatteryMWh *float64 `json:"min_viable_battery_mwh"`
	MinViableGenMW      *float64 `json:"min_viable_gen_mw"`

	Adjustments []sizing.Adjustment `json:"adjustments,omitempty"`
}

// ContainerListResponse lists the available container presets.
type ContainerListResponse struct {
	Containers []sizing.ContainerSpec `json:"containers"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewGridSweepResponse flattens a sizing.GridResult into the wire shape.
func NewGridSweepResponse(res *sizing.GridResult) GridSweepResponse {
	finite := func(v float64) *float64 {
		if math.IsNaN(v) {
			return nil
		}
		return &v
	}
	return GridSweepResponse{
		Status:              "completed",
		Outcomes:            res.Outcomes,
		Viable:              res.Viable,
		MinViableSolarMW:    finite(res.MinViableSolarMW),
		MinViableBatteryMWh: finite(res.MinViableBatteryMWh),
		MinViableGenMW:      finite(res.MinViableGenMW),
		Adjustments:         res.Adjustments,
	}
}

// NewSizingResponse flattens a sizing.SweepResult into the wire shape.
func NewSizingResponse(res *sizing.SweepResult) SizingResponse {
	out := SizingResponse{
		Status:        "completed",
		Strategy:      res.Strategy,
		Achieved:      res.Selected.Achieved,
		Justification: res.Selected.Justification,
		Adjustment:    res.Adjustment,
	}
	for i, o := range res.Outcomes {
		c := SweepCandidate{Value: o.Value, Metrics: o.Metrics, Selected: i == res.Selected.Index}
		out.Candidates = append(out.Candidates, c)
		if c.Selected {
			sel := c
			out.Selected = &sel
		}
	}
	return out
}
