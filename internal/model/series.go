package model

import "fmt"

// HoursPerYear is the canonical simulation horizon.
const HoursPerYear = 8760

// HourlySeries is an ordered sequence of hourly power values in MW.
// Index 0 is hour 0 of the horizon.
type HourlySeries []float64

// CheckShape compares the series against the expected horizon. A mismatch is
// not fatal — the simulation runs over whatever length is given — but it must
// be surfaced, never silently "fixed". Returns warning strings.
func (s HourlySeries) CheckShape(name string, expectedHours int) []string {
	var warnings []string
	if len(s) != expectedHours {
		warnings = append(warnings, fmt.Sprintf(
			"%s series has %d hours, expected %d; simulating over %d hours",
			name, len(s), expectedHours, len(s)))
	}
	for i, v := range s {
		if v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s series has negative value %.3f at hour %d, clamped to 0", name, v, i))
			break
		}
	}
	return warnings
}

// At returns the value at hour i, clamped at 0. Out-of-range hours read as 0.
func (s HourlySeries) At(i int) float64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	if s[i] < 0 {
		return 0
	}
	return s[i]
}

// Constant builds a flat series, used for scalar load targets in
// load-following mode and for test fixtures.
func Constant(valueMW float64, hours int) HourlySeries {
	s := make(HourlySeries, hours)
	for i := range s {
		s[i] = valueMW
	}
	return s
}

// Scaled returns a copy of the series multiplied by factor, for sweeping
// solar plant capacity against a normalized generation profile.
func (s HourlySeries) Scaled(factor float64) HourlySeries {
	out := make(HourlySeries, len(s))
	for i, v := range s {
		out[i] = v * factor
	}
	return out
}

// Total is the series sum in MWh (1-hour timestep).
func (s HourlySeries) Total() float64 {
	sum := 0.0
	for _, v := range s {
		if v > 0 {
			sum += v
		}
	}
	return sum
}
