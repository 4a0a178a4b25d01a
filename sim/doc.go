// Package sim provides the core discrete-event simulation engine for
// factory-sim: a virtual clock, an event heap, and the resource-allocation
// and transport-coordination subsystem that mediates access to shared,
// capacity-limited plant resources.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - simulator.go: the explicit simulation context, clock and event loop
//   - event.go / signal.go: events, continuations and single-fire completion signals
//   - capacity.go: priority-ordered mutual exclusion with fixed capacity
//   - manager.go: the allocation façade (the only writer of shared state)
//   - coordinator.go / transport.go: the four-phase transport cycle and the
//     pickup/delivery decoupling
//
// # Concurrency model
//
// Execution is single-threaded and cooperative: exactly one unit of logic
// runs until it suspends by scheduling a continuation (a timeout, a capacity
// grant, a completion-signal subscription). Data races are eliminated by
// construction; the only coordination concerns are ordering and fairness
// among suspended waiters, which CapacityResource makes deterministic:
// priority ascending, then arrival order.
//
// # Sub-packages
//
//   - sim/trace/: lifecycle notification records for external reporting
//   - sim/workload/: stochastic duration and order-arrival samplers
package sim
