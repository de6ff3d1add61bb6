// Package solar builds synthetic hourly generation profiles for demos and
// tests. It is a utility around the dispatch engine, not part of it: real
// runs feed the simulator measured 8760-hour series instead.
package solar

import (
	"math"
	"math/rand"

	"hybrid-sizing/internal/model"
)

// ProfileParams shapes a synthetic clear-sky year.
type ProfileParams struct {
	PeakMW float64 // plant output at solar noon on the best day

	// SeasonalSwing is the fraction by which winter daylight output drops
	// relative to summer (0 = no seasons, 0.5 = winter peak is half).
	SeasonalSwing float64

	// CloudSeed, when non-zero, applies seeded day-to-day cloud attenuation.
	// The same seed always produces the same series.
	CloudSeed int64
}

// ClearSkyYear generates an 8760-hour profile: a sine bell between sunrise
// and sunset, daylight window and amplitude varying through the year.
func ClearSkyYear(p ProfileParams) model.HourlySeries {
	return ClearSky(p, model.HoursPerYear)
}

// ClearSky generates a profile of arbitrary hour length (whole days work
// best; partial final days are fine for shape-mismatch tests).
func ClearSky(p ProfileParams, hours int) model.HourlySeries {
	if p.SeasonalSwing < 0 {
		p.SeasonalSwing = 0
	}
	var rng *rand.Rand
	if p.CloudSeed != 0 {
		rng = rand.New(rand.NewSource(p.CloudSeed))
	}

	out := make(model.HourlySeries, hours)
	days := (hours + 23) / 24
	for d := 0; d < days; d++ {
		// Season factor peaks at midsummer (day 172).
		season := 1 - p.SeasonalSwing*(1-math.Cos(2*math.Pi*float64(d-172)/365))/2

		clouds := 1.0
		if rng != nil {
			clouds = 0.4 + 0.6*rng.Float64()
		}

		// Daylight window: 8 h in deep winter up to 14 h in summer.
		halfDay := (8 + 6*season) / 2
		for h := 0; h < 24; h++ {
			idx := d*24 + h
			if idx >= hours {
				break
			}
			fromNoon := math.Abs(float64(h) - 12)
			if fromNoon >= halfDay {
				continue
			}
			out[idx] = p.PeakMW * season * clouds * math.Cos(fromNoon/halfDay*math.Pi/2)
		}
	}
	return out
}

// Normalized returns a per-MW profile (peak 1.0) for capacity sweeps.
func Normalized(p ProfileParams, hours int) model.HourlySeries {
	p.PeakMW = 1
	return ClearSky(p, hours)
}
