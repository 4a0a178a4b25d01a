package sim

import (
	"fmt"

	"github.com/factory-sim/factory-sim/sim/workload"
)

// TransportPhase is the current position of a transport instance in its
// four-phase cycle.
type TransportPhase string

const (
	PhaseIdle        TransportPhase = "idle"
	PhaseLoading     TransportPhase = "loading"
	PhaseMoving      TransportPhase = "moving"
	PhaseUnloading   TransportPhase = "unloading"
	PhaseCoolingDown TransportPhase = "cooling_down"
)

// Route describes the path a transport instance travels.
type Route struct {
	Origin      string
	Waypoint    string
	Destination string
}

func (r Route) String() string {
	if r.Waypoint == "" {
		return r.Origin + " -> " + r.Destination
	}
	return r.Origin + " -> " + r.Waypoint + " -> " + r.Destination
}

// Cargo is the token a producing process hands to the transport layer.
// The core does not inspect it beyond identity.
type Cargo struct {
	ID          string
	Description string
}

// PhaseDurations holds one sampler per cycle phase. Stochastic samplers model
// variable handling and travel times; constant samplers pin exact cycles for
// deterministic scenarios.
type PhaseDurations struct {
	Loading   workload.DurationSampler
	Moving    workload.DurationSampler
	Unloading workload.DurationSampler
	Cooldown  workload.DurationSampler
}

// FixedPhaseDurations builds constant samplers from raw tick counts.
// Loading, moving and unloading must be positive; cooldown may be zero.
func FixedPhaseDurations(loading, moving, unloading, cooldown int64) (PhaseDurations, error) {
	if loading <= 0 {
		return PhaseDurations{}, &ConfigurationError{Reason: fmt.Sprintf("loading time must be positive, got %d", loading)}
	}
	if moving <= 0 {
		return PhaseDurations{}, &ConfigurationError{Reason: fmt.Sprintf("transport time must be positive, got %d", moving)}
	}
	if unloading <= 0 {
		return PhaseDurations{}, &ConfigurationError{Reason: fmt.Sprintf("unloading time must be positive, got %d", unloading)}
	}
	if cooldown < 0 {
		return PhaseDurations{}, &ConfigurationError{Reason: fmt.Sprintf("cooldown time must not be negative, got %d", cooldown)}
	}
	return PhaseDurations{
		Loading:   workload.NewConstantDuration(loading),
		Moving:    workload.NewConstantDuration(moving),
		Unloading: workload.NewConstantDuration(unloading),
		Cooldown:  workload.NewConstantDuration(cooldown),
	}, nil
}

// TransportProcess is one registered vehicle (or crew) performing
// load / move / unload / cooldown cycles. Instances are created at setup,
// registered with the ResourceManager under a transport pool, and reused
// across many cargo jobs. At most one cycle runs at a time per instance;
// with BatchSize > 1 a cycle carries several cargo items at once.
type TransportProcess struct {
	ID        string
	Name      string
	Route     Route
	Durations PhaseDurations

	// BatchSize > 1 enables batch mode: cargo accumulates until the batch is
	// full (or MaxBatchWait elapses, when configured) before the cycle departs.
	BatchSize int
	// MaxBatchWait, in ticks, departs a partial batch after this long since
	// the first item was added. Zero means batches depart only when full.
	MaxBatchWait int64

	phase TransportPhase
	cargo []*Cargo

	// cycle statistics, read by Metrics at the end of the run
	CompletedCycles int
	BusyTicks       int64
}

// NewTransportProcess creates an idle single-cargo transport instance.
func NewTransportProcess(id, name string, route Route, durations PhaseDurations) (*TransportProcess, error) {
	if id == "" {
		return nil, &ConfigurationError{Reason: "transport instance id must not be empty"}
	}
	if durations.Loading == nil || durations.Moving == nil || durations.Unloading == nil || durations.Cooldown == nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("transport %q: all four phase durations are required", id)}
	}
	return &TransportProcess{
		ID:        id,
		Name:      name,
		Route:     route,
		Durations: durations,
		BatchSize: 1,
		phase:     PhaseIdle,
	}, nil
}

// NewBatchTransportProcess creates a transport instance that accumulates up
// to batchSize cargo items before departing. maxBatchWait of zero keeps the
// depart-only-when-full policy.
func NewBatchTransportProcess(id, name string, route Route, durations PhaseDurations, batchSize int, maxBatchWait int64) (*TransportProcess, error) {
	if batchSize < 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("transport %q: batch size must be at least 1, got %d", id, batchSize)}
	}
	if maxBatchWait < 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("transport %q: max batch wait must not be negative", id)}
	}
	tp, err := NewTransportProcess(id, name, route, durations)
	if err != nil {
		return nil, err
	}
	tp.BatchSize = batchSize
	tp.MaxBatchWait = maxBatchWait
	return tp, nil
}

// Phase returns the instance's current cycle phase.
func (tp *TransportProcess) Phase() TransportPhase { return tp.phase }

// Idle reports whether the instance can accept another cargo item: it is
// between cycles, or accumulating a batch that is not yet full.
func (tp *TransportProcess) Idle() bool {
	return tp.phase == PhaseIdle && len(tp.cargo) < tp.BatchSize
}

// CargoCount returns the number of items currently loaded or accumulating.
func (tp *TransportProcess) CargoCount() int { return len(tp.cargo) }

// addCargo places an item on the instance and reports whether the batch is
// now full. Called by the coordinator only.
func (tp *TransportProcess) addCargo(c *Cargo) (full bool) {
	if tp.phase != PhaseIdle {
		panic(fmt.Sprintf("transport %s: cargo added mid-cycle", tp.ID))
	}
	if len(tp.cargo) >= tp.BatchSize {
		panic(fmt.Sprintf("transport %s: batch overfilled", tp.ID))
	}
	tp.cargo = append(tp.cargo, c)
	return len(tp.cargo) == tp.BatchSize
}

// setPhase is the coordinator's hook for phase transitions.
func (tp *TransportProcess) setPhase(phase TransportPhase) {
	tp.phase = phase
}

// unloadAll clears the cargo at the end of a cycle and returns it.
func (tp *TransportProcess) unloadAll() []*Cargo {
	out := tp.cargo
	tp.cargo = nil
	return out
}
