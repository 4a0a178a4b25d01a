package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulator_TimeoutAdvancesClock(t *testing.T) {
	s := NewSimulator(10_000, 1)

	var firedAt int64 = -1
	s.Timeout(250, func(sim *Simulator) { firedAt = sim.Now() })
	s.Run()

	assert.Equal(t, int64(250), firedAt)
	assert.Equal(t, int64(250), s.Clock)
}

func TestSimulator_SameTickEventsRunInScheduleOrder(t *testing.T) {
	// GIVEN four timeouts at ticks 5, 3, 3, 1 scheduled in that order
	s := NewSimulator(10_000, 1)

	var order []string
	s.Timeout(5, func(_ *Simulator) { order = append(order, "late") })
	s.Timeout(3, func(_ *Simulator) { order = append(order, "mid-a") })
	s.Timeout(3, func(_ *Simulator) { order = append(order, "mid-b") })
	s.Timeout(1, func(_ *Simulator) { order = append(order, "early") })

	// WHEN the loop drains
	s.Run()

	// THEN time orders execution and same-tick events keep schedule order
	assert.Equal(t, []string{"early", "mid-a", "mid-b", "late"}, order)
}

func TestSimulator_ZeroDelayRunsAfterPriorSameTickEvents(t *testing.T) {
	s := NewSimulator(10_000, 1)

	var order []string
	s.Timeout(0, func(sim *Simulator) {
		order = append(order, "first")
		sim.Timeout(0, func(_ *Simulator) { order = append(order, "nested") })
	})
	s.Timeout(0, func(_ *Simulator) { order = append(order, "second") })
	s.Run()

	assert.Equal(t, []string{"first", "second", "nested"}, order)
	assert.Equal(t, int64(0), s.Clock)
}

func TestSimulator_HorizonStopsTheLoop(t *testing.T) {
	// GIVEN an event past the horizon
	s := NewSimulator(100, 1)

	fired := false
	lateFired := false
	s.Timeout(50, func(_ *Simulator) { fired = true })
	s.Timeout(101, func(_ *Simulator) { lateFired = true })
	s.Timeout(500, func(_ *Simulator) { t.Error("event far past horizon executed") })
	s.Run()

	// THEN the first event past the horizon still executes (the clock has to
	// pass the horizon to notice), later ones do not, and the reported end
	// time is clamped
	assert.True(t, fired)
	assert.True(t, lateFired)
	assert.Equal(t, int64(100), s.Metrics.SimEndedTime)
}

func TestSimulator_NegativeDelayPanics(t *testing.T) {
	s := NewSimulator(100, 1)
	assert.Panics(t, func() {
		s.Timeout(-1, func(_ *Simulator) {})
	})
}

func TestTicksConversion(t *testing.T) {
	assert.Equal(t, int64(300), Ticks(0.3))
	assert.Equal(t, int64(1500), Ticks(1.5))
	assert.Equal(t, int64(2200), Ticks(2.2))
	assert.Equal(t, int64(0), Ticks(0))
}
