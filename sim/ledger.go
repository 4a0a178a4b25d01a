package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// AllocationStatus tracks a reservation through its lifecycle. Transitions
// are monotonic: pending -> allocated -> in_progress -> completed, with
// failed reachable from any non-terminal state. No backward transitions.
type AllocationStatus string

const (
	StatusPending    AllocationStatus = "pending"
	StatusAllocated  AllocationStatus = "allocated"
	StatusInProgress AllocationStatus = "in_progress"
	StatusCompleted  AllocationStatus = "completed"
	StatusFailed     AllocationStatus = "failed"
)

// statusRank orders lifecycle states for the monotonicity check.
var statusRank = map[AllocationStatus]int{
	StatusPending:    0,
	StatusAllocated:  1,
	StatusInProgress: 2,
	StatusCompleted:  3,
	StatusFailed:     3,
}

// Terminal reports whether the status is an end state.
func (s AllocationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Reservation records one in-flight or completed allocation attempt.
// Reservations are retained after completion for audit and statistics;
// the ledger is never pruned during a run.
type Reservation struct {
	ID          string
	ResourceID  string
	RequesterID string
	Priority    int
	RequestedAt int64
	GrantedAt   int64 // -1 until allocated
	CompletedAt int64 // -1 until terminal
	Status      AllocationStatus
	// Done fires exactly once: at the end of loading for transport
	// allocations, or when allocation is determined impossible.
	Done *Signal

	holds   []*Hold
	waiters []*Waiter
}

// ReservationLedger is bookkeeping only: it issues unique allocation ids and
// tracks status transitions. It contains no scheduling logic. Only the
// ResourceManager mutates it.
type ReservationLedger struct {
	reservations map[string]*Reservation
	history      []*Reservation
}

// NewReservationLedger creates an empty ledger.
func NewReservationLedger() *ReservationLedger {
	return &ReservationLedger{
		reservations: make(map[string]*Reservation),
	}
}

// Create stores a new PENDING reservation and returns it. The allocation id
// is a compound key of resource, requester and request tick plus a random
// suffix, so it stays unique even for two requests issued at the same tick.
func (l *ReservationLedger) Create(now int64, resourceID, requesterID string, priority int) *Reservation {
	id := fmt.Sprintf("%s-%s-%d-%s", resourceID, requesterID, now, uuid.NewString()[:8])
	r := &Reservation{
		ID:          id,
		ResourceID:  resourceID,
		RequesterID: requesterID,
		Priority:    priority,
		RequestedAt: now,
		GrantedAt:   -1,
		CompletedAt: -1,
		Status:      StatusPending,
		Done:        NewSignal(),
	}
	l.reservations[id] = r
	l.history = append(l.history, r)
	return r
}

// Get returns the reservation for id, or ErrUnknownAllocation.
func (l *ReservationLedger) Get(id string) (*Reservation, error) {
	r, ok := l.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %q: %w", id, ErrUnknownAllocation)
	}
	return r, nil
}

// transition applies a monotonic status change.
func (l *ReservationLedger) transition(id string, next AllocationStatus) (*Reservation, error) {
	r, err := l.Get(id)
	if err != nil {
		return nil, err
	}
	if r.Status.Terminal() || statusRank[next] < statusRank[r.Status] {
		return nil, fmt.Errorf("reservation %q: %s -> %s: %w", id, r.Status, next, ErrInvalidTransition)
	}
	r.Status = next
	return r, nil
}

// MarkAllocated moves a reservation to ALLOCATED and stamps the grant tick.
func (l *ReservationLedger) MarkAllocated(id string, now int64) error {
	r, err := l.transition(id, StatusAllocated)
	if err != nil {
		return err
	}
	r.GrantedAt = now
	return nil
}

// MarkInProgress moves a reservation to IN_PROGRESS.
func (l *ReservationLedger) MarkInProgress(id string) error {
	_, err := l.transition(id, StatusInProgress)
	return err
}

// MarkCompleted moves a reservation to its terminal state and stamps the
// completion tick.
func (l *ReservationLedger) MarkCompleted(id string, now int64, success bool) error {
	next := StatusCompleted
	if !success {
		next = StatusFailed
	}
	r, err := l.transition(id, next)
	if err != nil {
		return err
	}
	r.CompletedAt = now
	return nil
}

// Len returns the number of reservations ever created.
func (l *ReservationLedger) Len() int {
	return len(l.history)
}

// History returns all reservations in creation order, for audit and
// statistics. Callers must not mutate the entries.
func (l *ReservationLedger) History() []*Reservation {
	return l.history
}
