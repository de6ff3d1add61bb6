package model

// BatteryMode is the battery's operating state for one simulated hour.
// Keep these values stable; they are intended for CSV output.
type BatteryMode string

const (
	ModeIdle        BatteryMode = "IDLE"
	ModeCharging    BatteryMode = "CHARGING"
	ModeDischarging BatteryMode = "DISCHARGING"
)

// GeneratorMode is the diesel generator's hysteresis state.
type GeneratorMode string

const (
	GenOff GeneratorMode = "OFF"
	GenOn  GeneratorMode = "ON"
)

// CycleIncrement returns the equivalent-full-cycle credit for a state
// transition. A half cycle accrues when the battery reverses direction:
// entering DISCHARGING from anything but DISCHARGING, or entering CHARGING
// from anything but CHARGING. Returning to IDLE never counts.
func CycleIncrement(from, to BatteryMode) float64 {
	switch {
	case to == ModeDischarging && from != ModeDischarging:
		return 0.5
	case to == ModeCharging && from != ModeCharging:
		return 0.5
	default:
		return 0
	}
}

// ModeFromPower maps a signed battery power (positive = discharge,
// negative = charge) to an operating mode.
func ModeFromPower(powerMW float64) BatteryMode {
	switch {
	case powerMW < 0:
		return ModeCharging
	case powerMW > 0:
		return ModeDischarging
	default:
		return ModeIdle
	}
}
