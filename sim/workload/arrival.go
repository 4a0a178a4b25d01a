package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// ArrivalSampler generates inter-arrival times for production orders.
type ArrivalSampler interface {
	// SampleIAT returns the next inter-arrival time in ticks.
	// Always returns a positive value (>= 1).
	SampleIAT(rng *rand.Rand) int64
}

// PoissonArrivals generates exponentially-distributed inter-arrival times.
type PoissonArrivals struct {
	ratePerTick float64 // orders per tick
}

func (s *PoissonArrivals) SampleIAT(rng *rand.Rand) int64 {
	iat := int64(rng.ExpFloat64() / s.ratePerTick)
	if iat < 1 {
		return 1
	}
	return iat
}

// UniformArrivals generates inter-arrival times uniform in [min, max] ticks.
type UniformArrivals struct {
	min, max int64
}

func (s *UniformArrivals) SampleIAT(rng *rand.Rand) int64 {
	if s.max <= s.min {
		return max(s.min, 1)
	}
	iat := s.min + rng.Int63n(s.max-s.min+1)
	if iat < 1 {
		return 1
	}
	return iat
}

// FixedArrivals replays an explicit arrival schedule (absolute ticks),
// returning the gaps between consecutive entries. Used by scenario tests
// that pin exact arrival times.
type FixedArrivals struct {
	gaps []int64
	next int
}

// NewFixedArrivals builds a sampler from absolute arrival ticks.
// Times must be non-decreasing.
func NewFixedArrivals(times []int64) (*FixedArrivals, error) {
	gaps := make([]int64, 0, len(times))
	prev := int64(0)
	for i, t := range times {
		if t < prev {
			return nil, fmt.Errorf("fixed arrivals: time %d at index %d precedes %d", t, i, prev)
		}
		gaps = append(gaps, t-prev)
		prev = t
	}
	return &FixedArrivals{gaps: gaps}, nil
}

// Exhausted reports whether the schedule has been fully replayed.
func (s *FixedArrivals) Exhausted() bool {
	return s.next >= len(s.gaps)
}

func (s *FixedArrivals) SampleIAT(_ *rand.Rand) int64 {
	if s.next >= len(s.gaps) {
		return math.MaxInt64 // past the schedule: never arrives
	}
	gap := s.gaps[s.next]
	s.next++
	return gap
}

// ArrivalSpec selects an arrival process for a production line.
type ArrivalSpec struct {
	Process     string  `yaml:"process"`       // "poisson" or "uniform"
	RatePerHour float64 `yaml:"rate_per_hour"` // poisson only
	MinHours    float64 `yaml:"min_hours"`     // uniform only
	MaxHours    float64 `yaml:"max_hours"`     // uniform only
}

// NewArrivalSampler creates an ArrivalSampler from a spec.
// ticksPerHour converts the spec's hour-based parameters into ticks.
func NewArrivalSampler(spec ArrivalSpec, ticksPerHour int64) (ArrivalSampler, error) {
	switch spec.Process {
	case "poisson":
		if spec.RatePerHour <= 0 {
			return nil, fmt.Errorf("poisson arrivals require a positive rate_per_hour, got %f", spec.RatePerHour)
		}
		return &PoissonArrivals{ratePerTick: spec.RatePerHour / float64(ticksPerHour)}, nil

	case "uniform":
		if spec.MaxHours < spec.MinHours || spec.MinHours < 0 {
			return nil, fmt.Errorf("uniform arrivals require 0 <= min_hours <= max_hours")
		}
		return &UniformArrivals{
			min: int64(spec.MinHours * float64(ticksPerHour)),
			max: int64(spec.MaxHours * float64(ticksPerHour)),
		}, nil

	default:
		return nil, fmt.Errorf("unknown arrival process %q", spec.Process)
	}
}
