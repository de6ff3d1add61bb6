package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams: RTE 0.81 gives a one-way efficiency of exactly 0.9, which keeps
// expected values readable.
func testParams() BatteryParams {
	return BatteryParams{
		EnergyCapacityMWh:   100,
		CRateCharge:         0.5,
		CRateDischarge:      0.5,
		RoundTripEfficiency: 0.81,
		MinSOC:              0.1,
		MaxSOC:              0.9,
		InitialSOC:          0.5,
	}
}

func TestOneWayEfficiency(t *testing.T) {
	p := testParams()
	assert.InDelta(t, 0.9, p.OneWayEfficiency(), 1e-12)
}

func TestChargeAppliesOneWayEfficiency(t *testing.T) {
	b := NewBattery(testParams())

	consumed := b.Charge(10)

	assert.InDelta(t, 10.0, consumed, 1e-9)
	// 10 MWh AC becomes 9 MWh in the cell.
	assert.InDelta(t, 0.59, b.SOC, 1e-9)
	assert.InDelta(t, 10.0, b.EnergyChargedMWh, 1e-9)
}

func TestDischargeAppliesOneWayEfficiency(t *testing.T) {
	b := NewBattery(testParams())

	delivered := b.Discharge(9)

	assert.InDelta(t, 9.0, delivered, 1e-9)
	// 9 MWh AC requires 10 MWh drawn from the cell.
	assert.InDelta(t, 0.4, b.SOC, 1e-9)
	assert.InDelta(t, 9.0, b.EnergyDischargedMWh, 1e-9)
}

func TestRoundTripLosesExactlyRTE(t *testing.T) {
	b := NewBattery(testParams())

	in := b.Charge(20)
	out := b.Discharge(1000) // drain everything that was stored, plus the initial inventory

	require.InDelta(t, 20.0, in, 1e-9)
	// Initial inventory: (0.5-0.1)*100 = 40 MWh cell-side, 36 AC-side.
	// Stored: 18 MWh cell-side, 16.2 AC-side. C-rate (50) clamps draw to 50
	// cell MWh = 45 AC.
	assert.InDelta(t, 45.0, out, 1e-9)
}

func TestChargeClampedByHeadroom(t *testing.T) {
	b := NewBattery(testParams())

	consumed := b.Charge(1000)

	// Headroom (0.9-0.5)*100 = 40 cell MWh beats the C-rate limit of 50.
	assert.InDelta(t, 0.9, b.SOC, 1e-9)
	assert.InDelta(t, 40.0/0.9, consumed, 1e-9)
	assert.InDelta(t, 0.0, b.Charge(10), 1e-9, "full battery consumes nothing")
	assert.InDelta(t, 0.9, b.SOC, 1e-9)
}

func TestChargeClampedByCRate(t *testing.T) {
	p := testParams()
	p.CRateCharge = 0.2
	p.InitialSOC = 0.1
	b := NewBattery(p)

	consumed := b.Charge(1000)

	// C-rate limit 20 cell MWh beats the 80 MWh of headroom.
	assert.InDelta(t, 0.3, b.SOC, 1e-9)
	assert.InDelta(t, 20.0/0.9, consumed, 1e-9)
}

func TestDischargeClampedByFloorAndCRate(t *testing.T) {
	t.Run("soc floor", func(t *testing.T) {
		p := testParams()
		p.InitialSOC = 0.2
		b := NewBattery(p)

		delivered := b.Discharge(1000)

		// Only (0.2-0.1)*100 = 10 cell MWh sits above the floor.
		assert.InDelta(t, 9.0, delivered, 1e-9)
		assert.InDelta(t, 0.1, b.SOC, 1e-9)
		assert.InDelta(t, 0.0, b.Discharge(10), 1e-9, "empty battery delivers nothing")
	})

	t.Run("c-rate", func(t *testing.T) {
		p := testParams()
		p.CRateDischarge = 0.1
		p.InitialSOC = 0.9
		b := NewBattery(p)

		delivered := b.Discharge(1000)

		assert.InDelta(t, 10.0*0.9, delivered, 1e-9)
		assert.InDelta(t, 0.8, b.SOC, 1e-9)
	})
}

func TestSOCStaysWithinBounds(t *testing.T) {
	p := testParams()
	b := NewBattery(p)

	for i := 0; i < 200; i++ {
		if i%3 == 0 {
			b.Charge(float64(i % 37))
		} else {
			b.Discharge(float64(i % 29))
		}
		require.GreaterOrEqual(t, b.SOC, p.MinSOC-1e-12, "iteration %d", i)
		require.LessOrEqual(t, b.SOC, p.MaxSOC+1e-12, "iteration %d", i)
	}
}

func TestDeliverableMWh(t *testing.T) {
	b := NewBattery(testParams())
	// min(40 available, 50 c-rate) * 0.9
	assert.InDelta(t, 36.0, b.DeliverableMWh(), 1e-9)

	p := testParams()
	p.InitialSOC = 0.9
	b = NewBattery(p)
	// min(80 available, 50 c-rate) * 0.9
	assert.InDelta(t, 45.0, b.DeliverableMWh(), 1e-9)
}

func TestCycleIncrementTable(t *testing.T) {
	cases := []struct {
		from, to BatteryMode
		want     float64
	}{
		{ModeIdle, ModeIdle, 0},
		{ModeIdle, ModeCharging, 0.5},
		{ModeIdle, ModeDischarging, 0.5},
		{ModeCharging, ModeIdle, 0},
		{ModeCharging, ModeCharging, 0},
		{ModeCharging, ModeDischarging, 0.5},
		{ModeDischarging, ModeIdle, 0},
		{ModeDischarging, ModeCharging, 0.5},
		{ModeDischarging, ModeDischarging, 0},
	}
	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.InDelta(t, tc.want, CycleIncrement(tc.from, tc.to), 1e-12)
		})
	}
}

func TestDailyCycleCap(t *testing.T) {
	p := testParams()
	p.MaxDailyCycles = 1
	b := NewBattery(p)

	require.True(t, b.CanTransition(ModeCharging))
	b.ApplyTransition(ModeCharging) // 0.5
	require.True(t, b.CanTransition(ModeDischarging))
	b.ApplyTransition(ModeDischarging) // 1.0

	// The day's budget is spent; a reversal would cost another half cycle.
	assert.False(t, b.CanTransition(ModeCharging))
	// Staying in the same direction costs nothing.
	assert.True(t, b.CanTransition(ModeDischarging))
	assert.True(t, b.CanTransition(ModeIdle))

	assert.InDelta(t, 1.0, b.TotalCycles, 1e-12)
}

func TestDayRolloverResetsCap(t *testing.T) {
	p := testParams()
	p.MaxDailyCycles = 0.5
	b := NewBattery(p)

	b.BeginHour(0)
	b.ApplyTransition(ModeDischarging)
	require.False(t, b.CanTransition(ModeCharging))

	for h := 1; h < 24; h++ {
		b.BeginHour(h)
	}
	require.False(t, b.CanTransition(ModeCharging), "cap holds through the rest of the day")

	b.BeginHour(24)
	assert.True(t, b.CanTransition(ModeCharging), "fresh day has a fresh budget")

	b.ApplyTransition(ModeCharging)
	b.CloseDay()

	require.Len(t, b.DailyCycles, 2)
	assert.InDelta(t, 0.5, b.DailyCycles[0], 1e-12)
	assert.InDelta(t, 0.5, b.DailyCycles[1], 1e-12)
	assert.InDelta(t, 1.0, b.TotalCycles, 1e-12)
}

func TestZeroCapDisablesLimit(t *testing.T) {
	b := NewBattery(testParams()) // MaxDailyCycles zero

	for i := 0; i < 50; i++ {
		require.True(t, b.CanTransition(ModeCharging))
		b.ApplyTransition(ModeCharging)
		require.True(t, b.CanTransition(ModeDischarging))
		b.ApplyTransition(ModeDischarging)
	}
	assert.InDelta(t, 50.0, b.TotalCycles, 1e-9)
}

func TestDegradation(t *testing.T) {
	p := testParams()
	p.DegradationPerCycle = 0.0002
	b := NewBattery(p)

	for i := 0; i < 10; i++ {
		b.ApplyTransition(ModeCharging)
		b.ApplyTransition(ModeDischarging)
	}
	assert.InDelta(t, 10*0.0002, b.Degradation(), 1e-12)
}
