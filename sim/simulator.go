// sim/simulator.go
package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// TicksPerHour converts simulated hours into clock ticks.
// All durations in the sim package are int64 ticks; scenario files express
// them in hours and convert at load time.
const TicksPerHour = 1000

// Ticks converts a duration in simulated hours into clock ticks.
func Ticks(hours float64) int64 {
	return int64(hours * TicksPerHour)
}

// Simulator is the core object that holds simulation time, system state, and the event loop.
// It is an explicit context passed to every component: there is no package-level
// registry, so multiple independent simulations can run in one process.
type Simulator struct {
	Clock int64
	// Horizon is the tick past which the run stops. The boundary check runs
	// after each event: the first event past the horizon still executes, and
	// Metrics.SimEndedTime is clamped to the horizon.
	Horizon int64
	// EventQueue has all the simulator events, like order arrivals, phase
	// boundaries and resumed continuations
	EventQueue EventQueue
	// Resources is the single entry point for capacity pools, transport
	// fleets and the reservation ledger
	Resources *ResourceManager
	// Inventory holds quantity-based stock (materials, tools, energy),
	// distinct from the capacity-resource layer
	Inventory *MaterialInventory
	Metrics   *Metrics
	// Trace collects lifecycle notifications for external reporting;
	// nil-safe (recording is skipped when unset)
	Trace *trace.PlantTrace
	RNG   *PartitionedRNG

	seq uint64
}

// NewSimulator creates a Simulator with an empty event queue and fresh
// allocation state. seed drives all stochastic sampling via PartitionedRNG.
func NewSimulator(horizon int64, seed int64) *Simulator {
	s := &Simulator{
		Clock:      0,
		Horizon:    horizon,
		EventQueue: make(EventQueue, 0),
		Inventory:  NewMaterialInventory(),
		Metrics:    NewMetrics(),
		Trace:      trace.NewPlantTrace(trace.Config{Level: trace.LevelLifecycle}),
		RNG:        NewPartitionedRNG(NewSimulationKey(seed)),
	}
	s.Resources = NewResourceManager(s)
	return s
}

// Now returns the current simulation time in ticks.
func (sim *Simulator) Now() int64 {
	return sim.Clock
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	sim.seq++
	heap.Push(&sim.EventQueue, scheduledEvent{ev: ev, seq: sim.seq})
}

// Timeout schedules fn to run after delay ticks. A zero delay runs fn at the
// current tick, after all previously scheduled same-tick events.
func (sim *Simulator) Timeout(delay int64, fn func(*Simulator)) {
	if delay < 0 {
		panic("Timeout: delay must not be negative")
	}
	sim.Schedule(&CallbackEvent{time: sim.Clock + delay, fn: fn})
}

// Run drains the event queue, advancing the clock to each event's timestamp,
// until the queue is empty or the horizon is passed.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		item := heap.Pop(&sim.EventQueue).(scheduledEvent)
		// advance the clock
		sim.Clock = item.ev.Timestamp()
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, item.ev)
		// process the event
		item.ev.Execute(sim)
		// end the simulation if the horizon is reached
		if sim.Clock > sim.Horizon {
			break
		}
	}
	sim.Metrics.SimEndedTime = min(sim.Clock, sim.Horizon)
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}
