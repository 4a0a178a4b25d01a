package sim

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// CallbackEvent runs an arbitrary continuation at its scheduled tick.
// Suspended computations (a process waiting on a timeout, a waiter being
// granted a capacity slot, a completion-signal subscriber) are all resumed
// through CallbackEvents, which keeps every resumption on the event heap
// and strictly ordered by (tick, schedule order).
type CallbackEvent struct {
	time int64
	fn   func(*Simulator)
}

// Timestamp returns the scheduled time of the CallbackEvent.
func (e *CallbackEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the continuation.
func (e *CallbackEvent) Execute(sim *Simulator) {
	e.fn(sim)
}

// scheduledEvent pairs an Event with its insertion sequence number.
// The sequence number makes ordering among equal timestamps deterministic:
// events scheduled earlier execute earlier.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by timestamp,
// breaking ties by insertion order.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []scheduledEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(scheduledEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}
