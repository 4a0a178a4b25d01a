package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_DeliversToAllSubscribers(t *testing.T) {
	s := NewSimulator(10_000, 1)
	sig := NewSignal()

	var got []Completion
	sig.Subscribe(s, func(_ *Simulator, c Completion) { got = append(got, c) })
	sig.Subscribe(s, func(_ *Simulator, c Completion) { got = append(got, c) })

	s.Timeout(300, func(sim *Simulator) {
		sig.Fire(sim, Completion{AllocationID: "a-1", Success: true, CompletionTime: sim.Now()})
	})
	s.Run()

	assert.True(t, sig.Fired())
	assert.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, "a-1", c.AllocationID)
		assert.True(t, c.Success)
		assert.Equal(t, int64(300), c.CompletionTime)
	}
}

func TestSignal_SubscribeAfterFireStillDelivers(t *testing.T) {
	// GIVEN a signal that fired at tick 100
	s := NewSimulator(10_000, 1)
	sig := NewSignal()
	s.Timeout(100, func(sim *Simulator) {
		sig.Fire(sim, Completion{AllocationID: "a-1", Success: true})
	})

	// WHEN a late subscriber arrives at tick 200
	var deliveredAt int64 = -1
	s.Timeout(200, func(sim *Simulator) {
		sig.Subscribe(sim, func(sim *Simulator, c Completion) {
			deliveredAt = sim.Now()
			assert.Equal(t, "a-1", c.AllocationID)
		})
	})
	s.Run()

	// THEN the payload is delivered at the subscriber's own tick
	assert.Equal(t, int64(200), deliveredAt)
}

func TestSignal_FireTwicePanics(t *testing.T) {
	s := NewSimulator(10_000, 1)
	sig := NewSignal()
	sig.Fire(s, Completion{AllocationID: "a-1"})

	assert.Panics(t, func() {
		sig.Fire(s, Completion{AllocationID: "a-1"})
	})
}

func TestWaitAll_FiresAfterLastSignal(t *testing.T) {
	// GIVEN three signals firing at ticks 100, 300 and 200
	s := NewSimulator(10_000, 1)
	sigs := []*Signal{NewSignal(), NewSignal(), NewSignal()}
	s.Timeout(100, func(sim *Simulator) { sigs[0].Fire(sim, Completion{}) })
	s.Timeout(300, func(sim *Simulator) { sigs[1].Fire(sim, Completion{}) })
	s.Timeout(200, func(sim *Simulator) { sigs[2].Fire(sim, Completion{}) })

	var doneAt int64 = -1
	WaitAll(s, sigs, func(sim *Simulator) { doneAt = sim.Now() })
	s.Run()

	assert.Equal(t, int64(300), doneAt)
}

func TestWaitAll_EmptySetFiresImmediately(t *testing.T) {
	s := NewSimulator(10_000, 1)

	var doneAt int64 = -1
	WaitAll(s, nil, func(sim *Simulator) { doneAt = sim.Now() })
	s.Run()

	assert.Equal(t, int64(0), doneAt)
}

func TestWaitAny_FiresOnceWithFirstPayload(t *testing.T) {
	// GIVEN two signals firing at ticks 200 and 100
	s := NewSimulator(10_000, 1)
	sigs := []*Signal{NewSignal(), NewSignal()}
	s.Timeout(200, func(sim *Simulator) { sigs[0].Fire(sim, Completion{AllocationID: "slow"}) })
	s.Timeout(100, func(sim *Simulator) { sigs[1].Fire(sim, Completion{AllocationID: "fast"}) })

	calls := 0
	var winner string
	WaitAny(s, sigs, func(_ *Simulator, c Completion) {
		calls++
		winner = c.AllocationID
	})
	s.Run()

	assert.Equal(t, 1, calls)
	assert.Equal(t, "fast", winner)
}
