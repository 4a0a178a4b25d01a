package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// jobMember binds one granted allocation to the cargo riding a transport
// cycle. The requester reference (reservation and its completion signal) is
// always preserved per member, so every original waiter is signalled
// individually even when one instance serves several queued requesters.
type jobMember struct {
	reservation *Reservation
	hold        *Hold
	cargo       *Cargo
}

// TransportCoordinator runs cargo jobs on one TransportProcess instance and
// bridges the cycle's internal phases to the allocation completion signals.
// One coordinator exists per registered instance, for the instance's
// lifetime.
//
// The completion signal fires at the end of LOADING ("cargo picked up"),
// releasing the producer to continue; the capacity slot stays held until the
// end of COOLING_DOWN ("vehicle free again"), which is what bounds concurrent
// transport throughput to the fleet size.
type TransportCoordinator struct {
	manager *ResourceManager
	pool    string
	tp      *TransportProcess

	members []jobMember
	// epoch invalidates stale partial-batch departure timers once a cycle
	// departs for another reason
	epoch     uint64
	waitArmed bool
}

func newTransportCoordinator(manager *ResourceManager, pool string, tp *TransportProcess) *TransportCoordinator {
	return &TransportCoordinator{manager: manager, pool: pool, tp: tp}
}

// busy reports whether the coordinator has a running cycle or pending batch
// members, which blocks unregistration.
func (tc *TransportCoordinator) busy() bool {
	return tc.tp.Phase() != PhaseIdle || len(tc.members) > 0
}

// assign binds a granted allocation to this instance. A full batch (or any
// assignment on a single-cargo instance) departs immediately; a first partial
// item arms the max-batch-wait timer when the policy is configured.
func (tc *TransportCoordinator) assign(sim *Simulator, member jobMember) {
	full := tc.tp.addCargo(member.cargo)
	tc.members = append(tc.members, member)

	if full {
		tc.startCycle(sim)
		return
	}
	logrus.Debugf("[tick %07d] transport %s: batch %d/%d, holding for more cargo",
		sim.Now(), tc.tp.ID, tc.tp.CargoCount(), tc.tp.BatchSize)
	if tc.tp.MaxBatchWait > 0 && !tc.waitArmed {
		tc.waitArmed = true
		epoch := tc.epoch
		sim.Timeout(tc.tp.MaxBatchWait, func(sim *Simulator) {
			// depart a partial batch unless the batch already left
			if tc.epoch == epoch && len(tc.members) > 0 && tc.tp.Phase() == PhaseIdle {
				logrus.Debugf("[tick %07d] transport %s: max batch wait reached, departing with %d/%d",
					sim.Now(), tc.tp.ID, tc.tp.CargoCount(), tc.tp.BatchSize)
				tc.startCycle(sim)
			}
		})
	}
}

// startCycle runs the four-phase cycle for the accumulated members.
func (tc *TransportCoordinator) startCycle(sim *Simulator) {
	tc.epoch++
	tc.waitArmed = false
	members := tc.members
	tc.members = nil
	start := sim.Now()

	rng := sim.RNG.ForSubsystem(SubsystemTransport(tc.tp.ID))
	loading := tc.tp.Durations.Loading.Sample(rng)
	moving := tc.tp.Durations.Moving.Sample(rng)
	unloading := tc.tp.Durations.Unloading.Sample(rng)
	cooldown := tc.tp.Durations.Cooldown.Sample(rng)

	tc.setPhase(sim, PhaseLoading)
	sim.Timeout(loading, func(sim *Simulator) {
		// cargo picked up: unblock every requester now, long before arrival
		for _, m := range members {
			m.reservation.Done.Fire(sim, Completion{
				AllocationID:   m.reservation.ID,
				RequesterID:    m.reservation.RequesterID,
				Success:        true,
				CompletionTime: sim.Now(),
			})
			sim.Metrics.RecordPickup(tc.pool, float64(sim.Now()-m.reservation.RequestedAt))
		}
		tc.setPhase(sim, PhaseMoving)
		sim.Timeout(moving, func(sim *Simulator) {
			tc.setPhase(sim, PhaseUnloading)
			sim.Timeout(unloading, func(sim *Simulator) {
				delivered := tc.tp.unloadAll()
				for _, c := range delivered {
					logrus.Infof("[tick %07d] transport %s delivered %s (%s)",
						sim.Now(), tc.tp.ID, c.ID, tc.tp.Route)
				}
				tc.setPhase(sim, PhaseCoolingDown)
				sim.Timeout(cooldown, func(sim *Simulator) {
					tc.finishCycle(sim, members, start)
				})
			})
		})
	})
}

// finishCycle returns the instance to IDLE, completes the reservations and
// releases the capacity slots. The instance goes idle before the slots are
// released so a promoted waiter's continuation finds it available.
func (tc *TransportCoordinator) finishCycle(sim *Simulator, members []jobMember, start int64) {
	tc.setPhase(sim, PhaseIdle)
	tc.tp.CompletedCycles++
	tc.tp.BusyTicks += sim.Now() - start
	sim.Metrics.TransportCycles++

	for _, m := range members {
		if err := tc.manager.ledger.MarkCompleted(m.reservation.ID, sim.Now(), true); err != nil {
			// cannot happen for a coordinator-owned reservation
			logrus.Errorf("transport %s: completing %s: %v", tc.tp.ID, m.reservation.ID, err)
		}
		tc.manager.releaseHold(sim, tc.pool, m.hold)
		sim.Trace.RecordAllocation(trace.AllocationRecord{
			Clock:        sim.Now(),
			AllocationID: m.reservation.ID,
			Pool:         tc.pool,
			Requester:    m.reservation.RequesterID,
			Priority:     m.reservation.Priority,
			Action:       trace.ActionReleased,
		})
	}
}

func (tc *TransportCoordinator) setPhase(sim *Simulator, phase TransportPhase) {
	tc.tp.setPhase(phase)
	sim.Trace.RecordPhase(trace.PhaseRecord{
		Clock:       sim.Now(),
		TransportID: tc.tp.ID,
		Pool:        tc.pool,
		Phase:       string(phase),
		CargoCount:  tc.tp.CargoCount(),
	})
	logrus.Debugf("[tick %07d] transport %s -> %s", sim.Now(), tc.tp.ID, phase)
}
