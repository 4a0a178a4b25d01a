// Package workload provides stochastic samplers for process durations and
// production-order arrivals. Samplers draw from *rand.Rand streams handed in
// by the caller, keeping all randomness seeded through the simulation's
// partitioned RNG.
package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// DurationSampler generates phase and processing durations in ticks.
type DurationSampler interface {
	// Sample returns a non-negative duration in ticks.
	Sample(rng *rand.Rand) int64
}

// ConstantDuration always returns the same fixed duration (zero variance).
type ConstantDuration struct {
	value int64
}

// NewConstantDuration wraps a fixed tick count as a sampler.
func NewConstantDuration(ticks int64) *ConstantDuration {
	return &ConstantDuration{value: ticks}
}

func (s *ConstantDuration) Sample(_ *rand.Rand) int64 {
	if s.value < 0 {
		return 0
	}
	return s.value
}

// GaussianDuration produces clamped Gaussian durations.
type GaussianDuration struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianDuration) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return s.min
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	result := int64(math.Round(clamped))
	if result < 0 {
		return 0
	}
	return result
}

// ExponentialDuration produces exponentially-distributed durations.
type ExponentialDuration struct {
	mean float64
}

func (s *ExponentialDuration) Sample(rng *rand.Rand) int64 {
	val := rng.ExpFloat64() * s.mean
	result := int64(math.Round(val))
	if result < 0 {
		return 0
	}
	return result
}

// DistSpec selects a duration distribution by type with its parameters,
// all expressed in ticks.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewDurationSampler creates a DurationSampler from a DistSpec.
func NewDurationSampler(spec DistSpec) (DurationSampler, error) {
	switch spec.Type {
	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return NewConstantDuration(int64(spec.Params["value"])), nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		return &GaussianDuration{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    int64(spec.Params["min"]),
			max:    int64(spec.Params["max"]),
		}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		return &ExponentialDuration{mean: spec.Params["mean"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
