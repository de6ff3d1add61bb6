package sizing

import "fmt"

// Selection is the result of applying a selection strategy to a sweep.
type Selection struct {
	Index         int    `json:"index"`
	Achieved      bool   `json:"achieved"`
	Justification string `json:"justification"`
}

// Strategy picks one candidate from an ordered sweep. Implementations must
// tolerate single-candidate sweeps and tie cases.
type Strategy interface {
	Name() string
	Select(outcomes []Outcome) Selection
}

// MarginalThreshold selects the smallest size at which the marginal
// delivered-hour gain, normalized per IncrementMWh of added capacity, first
// drops below GainThresholdHours. If gains never flatten, the largest tested
// size is selected.
type MarginalThreshold struct {
	GainThresholdHours float64 // default 300
	IncrementMWh       float64 // default 10
}

func (s MarginalThreshold) Name() string { return "marginal_threshold" }

func (s MarginalThreshold) threshold() (gain, per float64) {
	gain = s.GainThresholdHours
	if gain <= 0 {
		gain = 300
	}
	per = s.IncrementMWh
	if per <= 0 {
		per = 10
	}
	return gain, per
}

func (s MarginalThreshold) Select(outcomes []Outcome) Selection {
	if len(outcomes) == 0 {
		return Selection{Index: -1, Justification: "no candidates"}
	}
	gainThreshold, per := s.threshold()

	for i := 1; i < len(outcomes); i++ {
		dSize := outcomes[i].Value - outcomes[i-1].Value
		if dSize <= 0 {
			continue
		}
		dHours := float64(outcomes[i].Metrics.DeliveredHours - outcomes[i-1].Metrics.DeliveredHours)
		marginal := dHours / dSize * per
		if marginal < gainThreshold {
			return Selection{
				Index:    i,
				Achieved: true,
				Justification: fmt.Sprintf(
					"marginal gain %.1f h per %.0f MWh at %.1f MWh dropped below threshold %.0f h",
					marginal, per, outcomes[i].Value, gainThreshold),
			}
		}
	}
	last := len(outcomes) - 1
	return Selection{
		Index:    last,
		Achieved: true,
		Justification: fmt.Sprintf(
			"marginal gain never dropped below %.0f h per %.0f MWh; selected largest tested size %.1f MWh",
			gainThreshold, per, outcomes[last].Value),
	}
}

// HighYieldKnee restricts candidates to those achieving at least
// PerformanceFraction of the best delivered-hour count, then selects the
// member of that subset with the greatest marginal gain per MWh versus its
// predecessor.
type HighYieldKnee struct {
	PerformanceFraction float64 // default 0.95
}

func (s HighYieldKnee) Name() string { return "high_yield_knee" }

func (s HighYieldKnee) Select(outcomes []Outcome) Selection {
	if len(outcomes) == 0 {
		return Selection{Index: -1, Justification: "no candidates"}
	}
	frac := s.PerformanceFraction
	if frac <= 0 || frac > 1 {
		frac = 0.95
	}

	bestIdx := 0
	for i, o := range outcomes {
		if o.Metrics.DeliveredHours > outcomes[bestIdx].Metrics.DeliveredHours {
			bestIdx = i
		}
	}
	maxHours := outcomes[bestIdx].Metrics.DeliveredHours
	cutoff := frac * float64(maxHours)

	var subset []int
	for i, o := range outcomes {
		if float64(o.Metrics.DeliveredHours) >= cutoff {
			subset = append(subset, i)
		}
	}
	if len(subset) == 0 {
		// Degenerate (only possible when every count is zero-ish); fall back
		// to the globally best candidate.
		return Selection{
			Index:         bestIdx,
			Achieved:      true,
			Justification: "no candidate met the performance threshold; selected globally best candidate",
		}
	}

	kneeIdx := -1
	kneeGain := 0.0
	for _, i := range subset {
		if i == 0 {
			continue
		}
		dSize := outcomes[i].Value - outcomes[i-1].Value
		if dSize <= 0 {
			continue
		}
		gain := float64(outcomes[i].Metrics.DeliveredHours-outcomes[i-1].Metrics.DeliveredHours) / dSize
		if gain > kneeGain {
			kneeGain = gain
			kneeIdx = i
		}
	}
	if kneeIdx < 0 {
		// All marginal gains in the subset are flat: take the smallest
		// candidate that already meets the threshold.
		return Selection{
			Index:    subset[0],
			Achieved: true,
			Justification: fmt.Sprintf(
				"high-performance subset has flat marginal gains; selected smallest size %.1f meeting %.0f%% of best",
				outcomes[subset[0]].Value, frac*100),
		}
	}
	return Selection{
		Index:    kneeIdx,
		Achieved: true,
		Justification: fmt.Sprintf(
			"size %.1f has the greatest marginal gain (%.1f h/MWh) within the ≥%.0f%% performance subset",
			outcomes[kneeIdx].Value, kneeGain, frac*100),
	}
}

// MinimumForFullDelivery selects the smallest candidate delivering every
// simulated hour. When no candidate achieves 100%, it reports the best
// achieved and flags non-achievement explicitly rather than faking success.
type MinimumForFullDelivery struct{}

func (MinimumForFullDelivery) Name() string { return "minimum_for_full_delivery" }

func (MinimumForFullDelivery) Select(outcomes []Outcome) Selection {
	if len(outcomes) == 0 {
		return Selection{Index: -1, Justification: "no candidates"}
	}
	for i, o := range outcomes {
		if o.Metrics.DeliveredHours == o.Metrics.TotalHours {
			return Selection{
				Index:    i,
				Achieved: true,
				Justification: fmt.Sprintf(
					"smallest capacity %.2f achieving delivery in all %d hours",
					o.Value, o.Metrics.TotalHours),
			}
		}
	}
	bestIdx := 0
	for i, o := range outcomes {
		if o.Metrics.DeliveredHours > outcomes[bestIdx].Metrics.DeliveredHours {
			bestIdx = i
		}
	}
	best := outcomes[bestIdx]
	return Selection{
		Index:    bestIdx,
		Achieved: false,
		Justification: fmt.Sprintf(
			"no tested capacity achieved 100%% delivery; best is %.2f with %d of %d hours",
			best.Value, best.Metrics.DeliveredHours, best.Metrics.TotalHours),
	}
}
