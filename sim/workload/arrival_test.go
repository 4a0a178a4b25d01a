package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonArrivals_AlwaysPositive(t *testing.T) {
	s, err := NewArrivalSampler(ArrivalSpec{Process: "poisson", RatePerHour: 100}, 1000)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, s.SampleIAT(rng), int64(1))
	}
}

func TestUniformArrivals_WithinRange(t *testing.T) {
	s, err := NewArrivalSampler(ArrivalSpec{Process: "uniform", MinHours: 1, MaxHours: 2}, 1000)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		v := s.SampleIAT(rng)
		assert.GreaterOrEqual(t, v, int64(1000))
		assert.LessOrEqual(t, v, int64(2000))
	}
}

func TestFixedArrivals_ReplaysSchedule(t *testing.T) {
	// GIVEN absolute arrival ticks 100, 250, 250, 400
	s, err := NewFixedArrivals([]int64{100, 250, 250, 400})
	require.NoError(t, err)

	// THEN the sampler returns the gaps between them, zero gaps included
	gaps := []int64{100, 150, 0, 150}
	for i, want := range gaps {
		assert.False(t, s.Exhausted())
		assert.Equal(t, want, s.SampleIAT(nil), "gap %d", i)
	}
	assert.True(t, s.Exhausted())

	// past the schedule, arrivals never happen
	assert.Greater(t, s.SampleIAT(nil), int64(1<<60))
}

func TestFixedArrivals_RejectsDecreasingTimes(t *testing.T) {
	_, err := NewFixedArrivals([]int64{100, 50})
	assert.Error(t, err)
}

func TestNewArrivalSampler_Validation(t *testing.T) {
	_, err := NewArrivalSampler(ArrivalSpec{Process: "poisson"}, 1000)
	assert.Error(t, err)

	_, err = NewArrivalSampler(ArrivalSpec{Process: "uniform", MinHours: 2, MaxHours: 1}, 1000)
	assert.Error(t, err)

	_, err = NewArrivalSampler(ArrivalSpec{Process: "bursty"}, 1000)
	assert.Error(t, err)
}
