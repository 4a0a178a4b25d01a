package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/sim/trace"
)

// pool bundles a capacity resource with the transport fleet registered under
// its name. Non-transport pools have an empty fleet.
type pool struct {
	name         string
	kind         ResourceKind
	resource     *CapacityResource
	transports   []*TransportProcess // registration order, selection tie-break
	coordinators map[string]*TransportCoordinator

	// usage integral for utilization reporting
	lastChange int64
	busyTicks  int64
}

// touchUsage accumulates the in-use integral up to now. Called before every
// holder-set mutation.
func (p *pool) touchUsage(now int64) {
	p.busyTicks += int64(p.resource.InUse()) * (now - p.lastChange)
	p.lastChange = now
}

// PoolStatus is a point-in-time view of one pool, for reporting.
type PoolStatus struct {
	Name      string
	Kind      ResourceKind
	Capacity  int
	InUse     int
	QueueLen  int
	Fleet     int
	BusyTicks int64
}

// ResourceManager is the only entry point producing processes use to obtain
// shared resources. It coordinates capacity pools and the reservation ledger,
// and special-cases transport pools: those route through a
// TransportCoordinator instead of a plain acquire/release.
//
// All reservation and holder-set mutation goes through this type; no other
// component touches that state directly. Single-writer discipline plus the
// cooperative event loop is what keeps the design race-free without locks.
type ResourceManager struct {
	sim    *Simulator
	pools  map[string]*pool
	ledger *ReservationLedger
}

// NewResourceManager creates a manager bound to its simulation context.
func NewResourceManager(sim *Simulator) *ResourceManager {
	return &ResourceManager{
		sim:    sim,
		pools:  make(map[string]*pool),
		ledger: NewReservationLedger(),
	}
}

// Ledger exposes the reservation ledger for audit and statistics.
func (m *ResourceManager) Ledger() *ReservationLedger { return m.ledger }

// RegisterPool creates a named capacity pool. Pools live for the whole run.
func (m *ResourceManager) RegisterPool(name string, kind ResourceKind, capacity int) error {
	if _, exists := m.pools[name]; exists {
		return &ConfigurationError{Reason: fmt.Sprintf("pool %q already registered", name)}
	}
	if !kind.IsCapacityKind() {
		return &ConfigurationError{
			Reason: fmt.Sprintf("pool %q: kind %q is quantity-based, use the material inventory", name, kind),
		}
	}
	res, err := NewCapacityResource(name, capacity)
	if err != nil {
		return err
	}
	m.pools[name] = &pool{
		name:         name,
		kind:         kind,
		resource:     res,
		coordinators: make(map[string]*TransportCoordinator),
		lastChange:   m.sim.Now(),
	}
	m.sim.Trace.RecordRegistration(trace.RegistrationRecord{
		Clock:    m.sim.Now(),
		Pool:     name,
		Kind:     string(kind),
		Capacity: capacity,
	})
	logrus.Infof("[tick %07d] pool registered: %s (kind %s, capacity %d)", m.sim.Now(), name, kind, capacity)
	return nil
}

// RegisterTransport adds a transport instance to a transport pool. The
// instance is reused across many cargo jobs until unregistered.
func (m *ResourceManager) RegisterTransport(poolName string, tp *TransportProcess) error {
	p, err := m.transportPool(poolName)
	if err != nil {
		return err
	}
	if _, dup := p.coordinators[tp.ID]; dup {
		return &ConfigurationError{Reason: fmt.Sprintf("transport %q already registered in pool %q", tp.ID, poolName)}
	}
	p.transports = append(p.transports, tp)
	p.coordinators[tp.ID] = newTransportCoordinator(m, poolName, tp)
	m.sim.Trace.RecordRegistration(trace.RegistrationRecord{
		Clock:       m.sim.Now(),
		Pool:        poolName,
		Kind:        string(KindTransport),
		Capacity:    p.resource.Capacity(),
		TransportID: tp.ID,
	})
	logrus.Infof("[tick %07d] transport registered: %s -> pool %s (batch size %d)", m.sim.Now(), tp.ID, poolName, tp.BatchSize)
	return nil
}

// UnregisterTransport removes an instance from its pool. An instance that is
// mid-cycle, or holding a partially accumulated batch, cannot be removed:
// the call returns ErrTransportBusy and the fleet is unchanged.
func (m *ResourceManager) UnregisterTransport(poolName, transportID string) error {
	p, err := m.transportPool(poolName)
	if err != nil {
		return err
	}
	tc, ok := p.coordinators[transportID]
	if !ok {
		return &ConfigurationError{Reason: fmt.Sprintf("transport %q not registered in pool %q", transportID, poolName)}
	}
	if tc.busy() {
		return fmt.Errorf("unregister %q from pool %q: %w", transportID, poolName, ErrTransportBusy)
	}
	delete(p.coordinators, transportID)
	for i, tp := range p.transports {
		if tp.ID == transportID {
			p.transports = append(p.transports[:i], p.transports[i+1:]...)
			break
		}
	}
	logrus.Infof("[tick %07d] transport unregistered: %s from pool %s", m.sim.Now(), transportID, poolName)
	return nil
}

// Request is the generic acquisition path for machine and worker pools.
// It creates a reservation, queues for quantity slots and invokes onGranted
// with the allocation id once all slots are held. The allocation id is
// returned immediately; configuration faults surface synchronously.
func (m *ResourceManager) Request(poolName, requesterID string, priority, quantity int, onGranted func(*Simulator, string)) (string, error) {
	p, ok := m.pools[poolName]
	if !ok {
		return "", &ConfigurationError{Reason: fmt.Sprintf("pool %q not registered", poolName)}
	}
	if p.kind == KindTransport {
		return "", &ConfigurationError{Reason: fmt.Sprintf("pool %q is a transport pool, use RequestTransport", poolName)}
	}
	if quantity < 1 {
		return "", &ConfigurationError{Reason: fmt.Sprintf("pool %q: quantity must be at least 1, got %d", poolName, quantity)}
	}
	if quantity > p.resource.Capacity() {
		// can never be granted: it would hold every slot and pend forever
		return "", &ConfigurationError{
			Reason: fmt.Sprintf("pool %q: quantity %d exceeds capacity %d", poolName, quantity, p.resource.Capacity()),
		}
	}

	res := m.ledger.Create(m.sim.Now(), poolName, requesterID, priority)
	m.recordAllocation(res, trace.ActionRequested)
	sim := m.sim
	for i := 0; i < quantity; i++ {
		p.touchUsage(sim.Now())
		w := p.resource.Acquire(sim, priority, func(sim *Simulator, hold *Hold) {
			res.holds = append(res.holds, hold)
			if len(res.holds) < quantity {
				return
			}
			if err := m.ledger.MarkAllocated(res.ID, sim.Now()); err != nil {
				logrus.Errorf("allocating %s: %v", res.ID, err)
				return
			}
			res.waiters = nil
			sim.Metrics.RecordWait(poolName, float64(sim.Now()-res.RequestedAt))
			m.recordAllocation(res, trace.ActionGranted)
			logrus.Debugf("[tick %07d] granted %s to %s (waited %d ticks)",
				sim.Now(), poolName, requesterID, sim.Now()-res.RequestedAt)
			onGranted(sim, res.ID)
		})
		if w != nil {
			res.waiters = append(res.waiters, w)
		}
	}
	return res.ID, nil
}

// RequestTransport is the transport acquisition path. On grant it selects an
// idle registered instance (registration order), marks the reservation
// IN_PROGRESS and launches the coordinator's cycle in the background. The
// returned Signal fires when loading completes — the caller suspends on the
// pickup, not on the transport's full timeline.
func (m *ResourceManager) RequestTransport(poolName, requesterID string, priority int, cargo *Cargo) (string, *Signal, error) {
	p, err := m.transportPool(poolName)
	if err != nil {
		return "", nil, err
	}
	if len(p.transports) == 0 {
		// capacity was declared but no instance backs it
		return "", nil, fmt.Errorf("pool %q has capacity %d but no registered instances: %w",
			poolName, p.resource.Capacity(), ErrNoTransportAvailable)
	}
	if cargo == nil {
		return "", nil, &ConfigurationError{Reason: "transport request requires cargo"}
	}

	res := m.ledger.Create(m.sim.Now(), poolName, requesterID, priority)
	m.recordAllocation(res, trace.ActionRequested)
	p.touchUsage(m.sim.Now())
	w := p.resource.Acquire(m.sim, priority, func(sim *Simulator, hold *Hold) {
		if err := m.ledger.MarkAllocated(res.ID, sim.Now()); err != nil {
			logrus.Errorf("allocating %s: %v", res.ID, err)
			return
		}
		res.waiters = nil
		sim.Metrics.RecordWait(poolName, float64(sim.Now()-res.RequestedAt))
		m.recordAllocation(res, trace.ActionGranted)

		tc := m.selectTransport(p)
		if tc == nil {
			// declared capacity exceeds the fleet that can actually run:
			// surface the inconsistency instead of queueing invisibly
			logrus.Errorf("[tick %07d] pool %s: slot granted but no idle transport instance (fleet %d < capacity %d?)",
				sim.Now(), poolName, len(p.transports), p.resource.Capacity())
			_ = m.ledger.MarkCompleted(res.ID, sim.Now(), false)
			m.recordAllocation(res, trace.ActionFailed)
			m.releaseHold(sim, poolName, hold)
			res.Done.Fire(sim, Completion{
				AllocationID:   res.ID,
				RequesterID:    requesterID,
				Success:        false,
				CompletionTime: sim.Now(),
			})
			return
		}

		if err := m.ledger.MarkInProgress(res.ID); err != nil {
			logrus.Errorf("starting %s: %v", res.ID, err)
			return
		}
		tc.assign(sim, jobMember{reservation: res, hold: hold, cargo: cargo})
	})
	if w != nil {
		res.waiters = append(res.waiters, w)
	}
	return res.ID, res.Done, nil
}

// Release frees a generic allocation's slots and marks it COMPLETED.
// Transport allocations release automatically when their cycle finishes;
// releasing one here is an integration error. Releasing an unknown or
// already-completed id is the LookupError-class fault.
func (m *ResourceManager) Release(allocationID string) error {
	res, err := m.ledger.Get(allocationID)
	if err != nil {
		return err
	}
	if res.Status.Terminal() {
		return fmt.Errorf("allocation %q already %s: %w", allocationID, res.Status, ErrUnknownAllocation)
	}
	p := m.pools[res.ResourceID]
	if p != nil && p.kind == KindTransport {
		return &ConfigurationError{
			Reason: fmt.Sprintf("allocation %q: transport allocations are released by the coordinator", allocationID),
		}
	}
	if res.Status == StatusPending {
		return fmt.Errorf("allocation %q is still pending, cancel it instead: %w", allocationID, ErrInvalidTransition)
	}
	if err := m.ledger.MarkCompleted(allocationID, m.sim.Now(), true); err != nil {
		return err
	}
	for _, hold := range res.holds {
		m.releaseHold(m.sim, res.ResourceID, hold)
	}
	res.holds = nil
	m.recordAllocation(res, trace.ActionReleased)
	return nil
}

// Cancel abandons a still-pending allocation: its waiters leave the queue
// without disturbing the relative order of the others, any partially granted
// slots are returned, and the reservation moves to FAILED — never left
// silently pending.
func (m *ResourceManager) Cancel(allocationID string) error {
	res, err := m.ledger.Get(allocationID)
	if err != nil {
		return err
	}
	if res.Status != StatusPending {
		return fmt.Errorf("allocation %q is %s, only pending allocations can be cancelled: %w",
			allocationID, res.Status, ErrInvalidTransition)
	}
	p := m.pools[res.ResourceID]
	for _, w := range res.waiters {
		p.resource.Cancel(w)
	}
	res.waiters = nil
	for _, hold := range res.holds {
		m.releaseHold(m.sim, res.ResourceID, hold)
	}
	res.holds = nil
	if err := m.ledger.MarkCompleted(allocationID, m.sim.Now(), false); err != nil {
		return err
	}
	m.recordAllocation(res, trace.ActionCancelled)
	if !res.Done.Fired() {
		res.Done.Fire(m.sim, Completion{
			AllocationID:   res.ID,
			RequesterID:    res.RequesterID,
			Success:        false,
			CompletionTime: m.sim.Now(),
		})
	}
	return nil
}

// Status returns a point-in-time view of one pool.
func (m *ResourceManager) Status(poolName string) (PoolStatus, error) {
	p, ok := m.pools[poolName]
	if !ok {
		return PoolStatus{}, &ConfigurationError{Reason: fmt.Sprintf("pool %q not registered", poolName)}
	}
	return PoolStatus{
		Name:      p.name,
		Kind:      p.kind,
		Capacity:  p.resource.Capacity(),
		InUse:     p.resource.InUse(),
		QueueLen:  p.resource.QueueLen(),
		Fleet:     len(p.transports),
		BusyTicks: p.busyTicks + int64(p.resource.InUse())*(m.sim.Now()-p.lastChange),
	}, nil
}

// PoolNames returns registered pool names in sorted order.
func (m *ResourceManager) PoolNames() []string {
	names := make([]string, 0, len(m.pools))
	for name := range m.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// selectTransport picks the first idle instance in registration order.
// Deterministic: no load balancing, no randomness.
func (m *ResourceManager) selectTransport(p *pool) *TransportCoordinator {
	for _, tp := range p.transports {
		if tp.Idle() {
			return p.coordinators[tp.ID]
		}
	}
	return nil
}

// releaseHold returns one slot to a pool, updating the usage integral.
func (m *ResourceManager) releaseHold(sim *Simulator, poolName string, hold *Hold) {
	p := m.pools[poolName]
	p.touchUsage(sim.Now())
	p.resource.Release(sim, hold)
}

func (m *ResourceManager) transportPool(poolName string) (*pool, error) {
	p, ok := m.pools[poolName]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("pool %q not registered", poolName)}
	}
	if p.kind != KindTransport {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("pool %q is a %s pool, not transport", poolName, p.kind)}
	}
	return p, nil
}

func (m *ResourceManager) recordAllocation(res *Reservation, action trace.AllocationAction) {
	m.sim.Trace.RecordAllocation(trace.AllocationRecord{
		Clock:        m.sim.Now(),
		AllocationID: res.ID,
		Pool:         res.ResourceID,
		Requester:    res.RequesterID,
		Priority:     res.Priority,
		Action:       action,
	})
}
