package sim

import (
	"math"

	"hybrid-sizing/internal/model"
)

// deliveryTolerance absorbs floating-point drift when deciding whether an
// hour's target was met in full.
const deliveryTolerance = 1e-9

// dispatchHour allocates one hour of energy under the configured policy and
// returns the hour's record. The battery transition is NOT committed here;
// the simulator applies rec.BatteryMode after recording (the CanTransition
// pre-checks inside use the battery's pre-transition mode).
func dispatchHour(policy Policy, hour int, solarMW, targetMW float64, b *model.Battery, g *model.Generator) HourRecord {
	if policy == PolicyMeritOrder {
		return dispatchMeritOrder(hour, solarMW, targetMW, b, g)
	}
	return dispatchBinary(hour, solarMW, targetMW, b)
}

// dispatchBinary delivers exactly targetMW or nothing. There is no partial
// credit: an hour either has solar + deliverable battery energy covering the
// full target, or it delivers 0 and salvages what solar it can into storage.
func dispatchBinary(hour int, solarMW, targetMW float64, b *model.Battery) HourRecord {
	rec := HourRecord{
		Hour:     hour,
		SolarMW:  solarMW,
		TargetMW: targetMW,
	}

	mode := model.ModeIdle
	available := solarMW + b.DeliverableMWh()

	switch {
	case available+deliveryTolerance < targetMW:
		// Physically insufficient: deliver nothing, store what we can.
		rec.Cause = CauseResourceShortfall
		mode = chargeSolar(&rec, b, solarMW)

	case solarMW >= targetMW:
		// Solar alone covers the target; excess goes to storage.
		rec.DeliveredMW = targetMW
		rec.SolarToLoadMWh = targetMW
		mode = chargeSolar(&rec, b, solarMW-targetMW)

	default:
		// Battery must make up the difference.
		need := targetMW - solarMW
		if b.CanTransition(model.ModeDischarging) {
			out := b.Discharge(need)
			// The availability check guarantees the full draw succeeds.
			rec.DeliveredMW = targetMW
			rec.SolarToLoadMWh = solarMW
			rec.BatteryMW = out
			if out > 0 {
				mode = model.ModeDischarging
			}
		} else {
			// Resources were sufficient but the daily cycle cap blocks the
			// discharge transition. Recorded distinctly from a shortfall.
			rec.Cause = CauseCycleLimit
			mode = chargeSolar(&rec, b, solarMW)
		}
	}

	rec.DeficitMW = targetMW - rec.DeliveredMW
	rec.SOC = b.SOC
	rec.BatteryMode = mode
	return rec
}

// chargeSolar pushes excess solar into the battery, subject to the cycle-cap
// pre-check, and books the unstorable remainder as wastage. Returns the
// battery mode implied by what actually happened.
func chargeSolar(rec *HourRecord, b *model.Battery, excessMWh float64) model.BatteryMode {
	if excessMWh <= 0 {
		return model.ModeIdle
	}
	consumed := 0.0
	if b.CanTransition(model.ModeCharging) {
		consumed = b.Charge(excessMWh)
	}
	rec.SolarToBatteryMWh = consumed
	rec.SolarWastedMWh = excessMWh - consumed
	rec.BatteryMW = -consumed
	if consumed > 0 {
		return model.ModeCharging
	}
	return model.ModeIdle
}

// dispatchMeritOrder serves a continuous load in strict priority order:
// solar → load, generator → load, battery → load; then charges the battery
// from excess solar first and excess generator output second. Leftover solar
// is wastage; generator output beyond load + headroom is treated as backed
// off, never curtailed into wastage.
func dispatchMeritOrder(hour int, solarMW, loadMW float64, b *model.Battery, g *model.Generator) HourRecord {
	rec := HourRecord{
		Hour:     hour,
		SolarMW:  solarMW,
		TargetMW: loadMW,
	}

	genOut := 0.0
	if g != nil {
		genOut = g.Run()
		rec.GenMode = g.Mode
	}
	rec.GenMW = genOut

	rec.SolarToLoadMWh = math.Min(solarMW, loadMW)
	remaining := loadMW - rec.SolarToLoadMWh

	rec.GenToLoadMWh = math.Min(genOut, remaining)
	remaining -= rec.GenToLoadMWh

	discharged := 0.0
	if remaining > deliveryTolerance {
		if b.CanTransition(model.ModeDischarging) {
			discharged = b.Discharge(remaining)
			remaining -= discharged
		} else if b.DeliverableMWh() > deliveryTolerance {
			rec.Cause = CauseCycleLimit
		}
	}

	rec.DeliveredMW = rec.SolarToLoadMWh + rec.GenToLoadMWh + discharged
	rec.DeficitMW = loadMW - rec.DeliveredMW
	if rec.DeficitMW > deliveryTolerance && rec.Cause == "" {
		rec.Cause = CauseResourceShortfall
	}

	// Charging happens only in hours the battery did not discharge.
	excessSolar := solarMW - rec.SolarToLoadMWh
	excessGen := genOut - rec.GenToLoadMWh
	if discharged == 0 && (excessSolar > 0 || excessGen > 0) && b.CanTransition(model.ModeCharging) {
		rec.SolarToBatteryMWh = b.Charge(excessSolar)
		rec.GenToBatteryMWh = b.Charge(excessGen)
	}
	rec.SolarWastedMWh = excessSolar - rec.SolarToBatteryMWh

	if g != nil {
		g.Attribute(rec.GenToLoadMWh, rec.GenToBatteryMWh)
	}

	rec.BatteryMW = discharged - rec.SolarToBatteryMWh - rec.GenToBatteryMWh
	rec.SOC = b.SOC
	rec.BatteryMode = model.ModeFromPower(rec.BatteryMW)
	return rec
}
