package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NilTrace(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Requested)
	assert.NotNil(t, s.CyclesByTransport)
}

func TestSummarize_CountsActionsAndCycles(t *testing.T) {
	pt := NewPlantTrace(Config{Level: LevelLifecycle})

	pt.RecordRegistration(RegistrationRecord{Pool: "mills", Kind: "machine", Capacity: 2})
	pt.RecordRegistration(RegistrationRecord{Pool: "agv", Kind: "transport", Capacity: 2})
	pt.RecordRegistration(RegistrationRecord{Pool: "agv", Kind: "transport", TransportID: "agv-1"})

	for _, a := range []AllocationAction{
		ActionRequested, ActionRequested, ActionGranted, ActionReleased, ActionFailed, ActionCancelled,
	} {
		pt.RecordAllocation(AllocationRecord{AllocationID: "a", Action: a})
	}

	// two full cycles on agv-1, one on agv-2
	for _, rec := range []PhaseRecord{
		{TransportID: "agv-1", Phase: "loading"},
		{TransportID: "agv-1", Phase: "moving"},
		{TransportID: "agv-1", Phase: "loading"},
		{TransportID: "agv-2", Phase: "loading"},
		{TransportID: "agv-2", Phase: "idle"},
	} {
		pt.RecordPhase(rec)
	}

	s := Summarize(pt)
	assert.Equal(t, 2, s.PoolsRegistered)
	assert.Equal(t, 1, s.TransportsRegistered)
	assert.Equal(t, 2, s.Requested)
	assert.Equal(t, 1, s.Granted)
	assert.Equal(t, 1, s.Released)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, 2, s.CyclesByTransport["agv-1"])
	assert.Equal(t, 1, s.CyclesByTransport["agv-2"])
}
