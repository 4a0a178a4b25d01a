package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/workload"
)

// MaterialNeed is one stock draw a production unit makes before processing.
type MaterialNeed struct {
	Name     string
	Quantity float64
}

// ProductionLine is a producing process: per unit it draws materials,
// acquires a machine (and optionally a worker), runs its processing time,
// then hands the finished unit to the transport layer and suspends on the
// pickup signal before starting the next unit.
//
// Failures are recovered per unit: a material shortage or a failed transport
// allocation logs, abandons that unit and moves on — it never crashes the run.
type ProductionLine struct {
	ID            string
	MachinePool   string
	WorkerPool    string // empty = unmanned line
	TransportPool string
	Priority      int
	Materials     []MaterialNeed
	// ProcessingTime samples the per-unit work duration
	ProcessingTime workload.DurationSampler
	// Units is the total number of units this line will attempt
	Units int
	// Arrivals paces order arrivals; nil starts every unit back-to-back
	Arrivals workload.ArrivalSampler

	started       int
	pendingOrders int
	busy          bool
}

// Start begins the line at the current tick. With an arrival sampler, orders
// trickle in; otherwise all units are ordered immediately.
func (pl *ProductionLine) Start(sim *Simulator) error {
	if pl.ProcessingTime == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("line %q: processing time sampler is required", pl.ID)}
	}
	if pl.Units <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("line %q: units must be positive, got %d", pl.ID, pl.Units)}
	}
	if pl.Arrivals == nil {
		pl.pendingOrders = pl.Units
		pl.tryStartUnit(sim)
		return nil
	}
	pl.scheduleNextOrder(sim, 0)
	return nil
}

// scheduleNextOrder emits order number ordered+1 after the sampled gap.
func (pl *ProductionLine) scheduleNextOrder(sim *Simulator, ordered int) {
	if ordered >= pl.Units {
		return
	}
	gap := pl.Arrivals.SampleIAT(sim.RNG.ForSubsystem(SubsystemArrivals))
	if gap > sim.Horizon-sim.Now() {
		// the next order cannot arrive within the run; an exhausted fixed
		// schedule reports an effectively infinite gap
		return
	}
	sim.Timeout(gap, func(sim *Simulator) {
		logrus.Debugf("[tick %07d] line %s: order %d arrived", sim.Now(), pl.ID, ordered+1)
		pl.pendingOrders++
		pl.tryStartUnit(sim)
		pl.scheduleNextOrder(sim, ordered+1)
	})
}

// tryStartUnit begins the next unit when the line is free and work is queued.
func (pl *ProductionLine) tryStartUnit(sim *Simulator) {
	if pl.busy || pl.pendingOrders == 0 {
		return
	}
	pl.pendingOrders--
	pl.busy = true
	pl.started++
	unitID := fmt.Sprintf("%s-unit-%d", pl.ID, pl.started)
	pl.runUnit(sim, unitID)
}

// finishUnit frees the line and picks up queued work.
func (pl *ProductionLine) finishUnit(sim *Simulator) {
	pl.busy = false
	pl.tryStartUnit(sim)
}

// abortUnit implements the per-unit partial-failure policy.
func (pl *ProductionLine) abortUnit(sim *Simulator, unitID string, err error) {
	logrus.Warnf("[tick %07d] line %s: abandoning %s: %v", sim.Now(), pl.ID, unitID, err)
	sim.Metrics.UnitsAborted++
	pl.finishUnit(sim)
}

func (pl *ProductionLine) runUnit(sim *Simulator, unitID string) {
	if err := pl.drawMaterials(sim); err != nil {
		pl.abortUnit(sim, unitID, err)
		return
	}

	pl.acquireStations(sim, unitID, func(sim *Simulator, releaseStations func(*Simulator)) {
		processing := pl.ProcessingTime.Sample(sim.RNG.ForSubsystem(SubsystemProcessing))
		sim.Timeout(processing, func(sim *Simulator) {
			releaseStations(sim)
			pl.shipUnit(sim, unitID)
		})
	})
}

// drawMaterials consumes every material need, rolling back already-consumed
// draws on shortage so a partial unit never leaks stock.
func (pl *ProductionLine) drawMaterials(sim *Simulator) error {
	for i, need := range pl.Materials {
		if err := sim.Inventory.Consume(need.Name, need.Quantity); err != nil {
			for _, done := range pl.Materials[:i] {
				if rerr := sim.Inventory.ReturnStock(done.Name, done.Quantity); rerr != nil {
					logrus.Errorf("line %s: returning %s: %v", pl.ID, done.Name, rerr)
				}
			}
			return err
		}
	}
	return nil
}

// acquireStations acquires the machine pool, then the worker pool when one is
// configured, and hands the caller a combined release continuation.
func (pl *ProductionLine) acquireStations(sim *Simulator, unitID string, ready func(*Simulator, func(*Simulator))) {
	_, err := sim.Resources.Request(pl.MachinePool, unitID, pl.Priority, 1, func(sim *Simulator, machineID string) {
		if pl.WorkerPool == "" {
			ready(sim, func(sim *Simulator) { pl.release(sim, machineID) })
			return
		}
		_, werr := sim.Resources.Request(pl.WorkerPool, unitID, pl.Priority, 1, func(sim *Simulator, workerID string) {
			ready(sim, func(sim *Simulator) {
				pl.release(sim, workerID)
				pl.release(sim, machineID)
			})
		})
		if werr != nil {
			pl.release(sim, machineID)
			pl.abortUnit(sim, unitID, werr)
		}
	})
	if err != nil {
		pl.abortUnit(sim, unitID, err)
	}
}

func (pl *ProductionLine) release(sim *Simulator, allocationID string) {
	if err := sim.Resources.Release(allocationID); err != nil {
		logrus.Errorf("line %s: releasing %s: %v", pl.ID, allocationID, err)
	}
}

// shipUnit hands the finished unit to the transport layer. The line suspends
// on the pickup signal only — the transport's journey continues on its own.
func (pl *ProductionLine) shipUnit(sim *Simulator, unitID string) {
	cargo := &Cargo{ID: unitID, Description: fmt.Sprintf("finished goods from line %s", pl.ID)}
	_, done, err := sim.Resources.RequestTransport(pl.TransportPool, unitID, pl.Priority, cargo)
	if err != nil {
		pl.abortUnit(sim, unitID, err)
		return
	}
	done.Subscribe(sim, func(sim *Simulator, c Completion) {
		if !c.Success {
			pl.abortUnit(sim, unitID, fmt.Errorf("transport allocation %s failed", c.AllocationID))
			return
		}
		logrus.Infof("[tick %07d] line %s: %s picked up, resuming", sim.Now(), pl.ID, unitID)
		sim.Metrics.UnitsCompleted++
		pl.finishUnit(sim)
	})
}
