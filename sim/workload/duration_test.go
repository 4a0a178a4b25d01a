package workload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestConstantDuration(t *testing.T) {
	s := NewConstantDuration(300)
	for i := 0; i < 5; i++ {
		assert.Equal(t, int64(300), s.Sample(testRNG()))
	}

	// negative values clamp to zero
	assert.Equal(t, int64(0), NewConstantDuration(-10).Sample(testRNG()))
}

func TestGaussianDuration_StaysWithinBounds(t *testing.T) {
	s, err := NewDurationSampler(DistSpec{
		Type:   "gaussian",
		Params: map[string]float64{"mean": 1000, "std_dev": 400, "min": 500, "max": 1500},
	})
	require.NoError(t, err)

	rng := testRNG()
	for i := 0; i < 1000; i++ {
		v := s.Sample(rng)
		assert.GreaterOrEqual(t, v, int64(500))
		assert.LessOrEqual(t, v, int64(1500))
	}
}

func TestExponentialDuration_NonNegative(t *testing.T) {
	s, err := NewDurationSampler(DistSpec{
		Type:   "exponential",
		Params: map[string]float64{"mean": 800},
	})
	require.NoError(t, err)

	rng := testRNG()
	for i := 0; i < 1000; i++ {
		assert.GreaterOrEqual(t, s.Sample(rng), int64(0))
	}
}

func TestNewDurationSampler_Validation(t *testing.T) {
	_, err := NewDurationSampler(DistSpec{Type: "weibull"})
	assert.Error(t, err)

	_, err = NewDurationSampler(DistSpec{Type: "constant", Params: map[string]float64{}})
	assert.Error(t, err)

	_, err = NewDurationSampler(DistSpec{Type: "gaussian", Params: map[string]float64{"mean": 1000}})
	assert.Error(t, err)
}

func TestSamplersAreDeterministicPerSeed(t *testing.T) {
	spec := DistSpec{
		Type:   "gaussian",
		Params: map[string]float64{"mean": 1000, "std_dev": 200, "min": 0, "max": 2000},
	}
	s1, err := NewDurationSampler(spec)
	require.NoError(t, err)
	s2, err := NewDurationSampler(spec)
	require.NoError(t, err)

	r1, r2 := testRNG(), testRNG()
	for i := 0; i < 50; i++ {
		assert.Equal(t, s1.Sample(r1), s2.Sample(r2))
	}
}
