package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPhaseDurations_Validation(t *testing.T) {
	cases := []struct {
		name                                  string
		loading, moving, unloading, cooldown int64
		wantErr                               bool
	}{
		{"all positive", 300, 1500, 200, 200, false},
		{"zero cooldown allowed", 300, 1500, 200, 0, false},
		{"zero loading", 0, 1500, 200, 200, true},
		{"negative moving", 300, -1, 200, 200, true},
		{"zero unloading", 300, 1500, 0, 200, true},
		{"negative cooldown", 300, 1500, 200, -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FixedPhaseDurations(tc.loading, tc.moving, tc.unloading, tc.cooldown)
			if tc.wantErr {
				var cfgErr *ConfigurationError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTransportProcess_Validation(t *testing.T) {
	d := testDurations(t)

	_, err := NewTransportProcess("", "nameless", Route{}, d)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = NewTransportProcess("agv-1", "AGV 1", Route{}, PhaseDurations{Loading: d.Loading})
	assert.ErrorAs(t, err, &cfgErr)

	tp, err := NewTransportProcess("agv-1", "AGV 1", Route{Origin: "a", Destination: "b"}, d)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, tp.Phase())
	assert.Equal(t, 1, tp.BatchSize)
	assert.True(t, tp.Idle())
}

func TestNewBatchTransportProcess_Validation(t *testing.T) {
	d := testDurations(t)

	var cfgErr *ConfigurationError
	_, err := NewBatchTransportProcess("agv-1", "AGV 1", Route{}, d, 0, 0)
	assert.ErrorAs(t, err, &cfgErr)
	_, err = NewBatchTransportProcess("agv-1", "AGV 1", Route{}, d, 2, -1)
	assert.ErrorAs(t, err, &cfgErr)

	tp, err := NewBatchTransportProcess("agv-1", "AGV 1", Route{}, d, 4, 1000)
	require.NoError(t, err)
	assert.Equal(t, 4, tp.BatchSize)
	assert.Equal(t, int64(1000), tp.MaxBatchWait)
}

func TestTransportProcess_BatchAccumulation(t *testing.T) {
	tp, err := NewBatchTransportProcess("agv-1", "AGV 1", Route{}, testDurations(t), 2, 0)
	require.NoError(t, err)

	assert.False(t, tp.addCargo(&Cargo{ID: "u1"}))
	assert.True(t, tp.Idle()) // accumulating, still selectable
	assert.True(t, tp.addCargo(&Cargo{ID: "u2"}))
	assert.False(t, tp.Idle()) // full batch
	assert.Equal(t, 2, tp.CargoCount())

	delivered := tp.unloadAll()
	assert.Len(t, delivered, 2)
	assert.Equal(t, 0, tp.CargoCount())
}

func TestTransportProcess_CargoMidCyclePanics(t *testing.T) {
	tp, err := NewTransportProcess("agv-1", "AGV 1", Route{}, testDurations(t))
	require.NoError(t, err)
	tp.setPhase(PhaseMoving)

	assert.Panics(t, func() { tp.addCargo(&Cargo{ID: "u1"}) })
}

func TestRouteString(t *testing.T) {
	assert.Equal(t, "assembly -> warehouse",
		Route{Origin: "assembly", Destination: "warehouse"}.String())
	assert.Equal(t, "assembly -> corridor-b -> warehouse",
		Route{Origin: "assembly", Waypoint: "corridor-b", Destination: "warehouse"}.String())
}
