package sim

import (
	"container/heap"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CapacityResource enforces "at most N concurrent holders" for a named pool.
// Requests beyond capacity queue, and are released strictly in order of
// (priority ascending, arrival ascending): lower numeric priority is more
// urgent, ties break First-Come-First-Served. There is no randomized
// tie-breaking anywhere on this path.
//
// Holder bookkeeping mutates synchronously inside Acquire/Release so that
// |holders| <= capacity is observable at every tick; the granted waiter's
// continuation itself runs as a scheduled event at the current tick.
type CapacityResource struct {
	name     string
	capacity int
	holders  map[*Hold]struct{}
	waiters  waiterQueue
	seq      uint64
}

// Hold is the token returned to a granted requester. It must be passed back
// to Release exactly once.
type Hold struct {
	resource *CapacityResource
	released bool
}

// Waiter identifies a queued acquire request so it can be cancelled without
// disturbing the relative order of other waiters.
type Waiter struct {
	priority int
	seq      uint64
	grant    func(*Simulator, *Hold)
	index    int // heap index, -1 once granted or cancelled
}

// waiterQueue implements heap.Interface over pending waiters,
// ordered by (priority asc, arrival seq asc).
type waiterQueue []*Waiter

func (wq waiterQueue) Len() int { return len(wq) }

func (wq waiterQueue) Less(i, j int) bool {
	if wq[i].priority != wq[j].priority {
		return wq[i].priority < wq[j].priority
	}
	return wq[i].seq < wq[j].seq
}

func (wq waiterQueue) Swap(i, j int) {
	wq[i], wq[j] = wq[j], wq[i]
	wq[i].index = i
	wq[j].index = j
}

func (wq *waiterQueue) Push(x any) {
	w := x.(*Waiter)
	w.index = len(*wq)
	*wq = append(*wq, w)
}

func (wq *waiterQueue) Pop() any {
	old := *wq
	n := len(old)
	w := old[n-1]
	w.index = -1
	*wq = old[0 : n-1]
	return w
}

// NewCapacityResource creates a pool with a fixed positive capacity.
// Zero or negative capacity is a configuration error: every acquire would
// block forever.
func NewCapacityResource(name string, capacity int) (*CapacityResource, error) {
	if capacity <= 0 {
		return nil, &ConfigurationError{
			Reason: fmt.Sprintf("capacity resource %q: capacity must be positive, got %d", name, capacity),
		}
	}
	return &CapacityResource{
		name:     name,
		capacity: capacity,
		holders:  make(map[*Hold]struct{}),
		waiters:  make(waiterQueue, 0),
	}, nil
}

// Name returns the pool name.
func (c *CapacityResource) Name() string { return c.name }

// Capacity returns the fixed slot count.
func (c *CapacityResource) Capacity() int { return c.capacity }

// InUse returns the number of currently held slots.
func (c *CapacityResource) InUse() int { return len(c.holders) }

// Available returns the number of free slots.
func (c *CapacityResource) Available() int { return c.capacity - len(c.holders) }

// QueueLen returns the number of pending waiters.
func (c *CapacityResource) QueueLen() int { return len(c.waiters) }

// Acquire requests one slot. When a slot is free the hold is taken
// immediately and grant is scheduled at the current tick; otherwise the
// request queues and grant runs when the slot is eventually granted.
// The returned Waiter is nil for immediate grants.
func (c *CapacityResource) Acquire(sim *Simulator, priority int, grant func(*Simulator, *Hold)) *Waiter {
	if len(c.holders) < c.capacity {
		hold := &Hold{resource: c}
		c.holders[hold] = struct{}{}
		sim.Timeout(0, func(sim *Simulator) { grant(sim, hold) })
		return nil
	}
	c.seq++
	w := &Waiter{priority: priority, seq: c.seq, grant: grant}
	heap.Push(&c.waiters, w)
	logrus.Debugf("[tick %07d] %s: waiter queued (priority %d, %d ahead)",
		sim.Now(), c.name, priority, len(c.waiters)-1)
	return w
}

// Release frees a held slot and, if waiters exist, promotes the next eligible
// one before returning. Releasing the same hold twice panics: the manager
// guards double release at the ledger level, so reaching this is a bug.
func (c *CapacityResource) Release(sim *Simulator, hold *Hold) {
	if hold == nil || hold.resource != c {
		panic("CapacityResource: release of foreign hold")
	}
	if hold.released {
		panic(fmt.Sprintf("CapacityResource %s: hold released twice", c.name))
	}
	hold.released = true
	delete(c.holders, hold)

	if len(c.waiters) > 0 {
		next := heap.Pop(&c.waiters).(*Waiter)
		nextHold := &Hold{resource: c}
		c.holders[nextHold] = struct{}{}
		grant := next.grant
		sim.Timeout(0, func(sim *Simulator) { grant(sim, nextHold) })
	}
}

// Cancel removes a pending waiter from the queue. The relative order of the
// remaining waiters is untouched. Cancelling an already granted or already
// cancelled waiter is a no-op returning false.
func (c *CapacityResource) Cancel(w *Waiter) bool {
	if w == nil || w.index < 0 {
		return false
	}
	heap.Remove(&c.waiters, w.index)
	w.index = -1
	w.grant = nil
	return true
}
