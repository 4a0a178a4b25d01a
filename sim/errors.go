package sim

import (
	"errors"
	"fmt"
)

// Error taxonomy for the allocation layer. Configuration faults are fatal to
// the run; allocation faults are recovered at the granularity of one unit of
// work; lookup faults indicate integration bugs and must not be suppressed.
var (
	// ErrUnknownAllocation is returned when operating on an allocation id the
	// ledger has never issued, or one that already completed (double release).
	ErrUnknownAllocation = errors.New("unknown allocation id")

	// ErrInvalidTransition is returned when a reservation status update would
	// move backwards through the lifecycle.
	ErrInvalidTransition = errors.New("invalid reservation status transition")

	// ErrTransportBusy is returned when unregistering a transport instance
	// that is mid-cycle or holds a partially accumulated batch.
	ErrTransportBusy = errors.New("transport instance is mid-cycle")

	// ErrNoTransportAvailable is returned when a transport pool has declared
	// capacity but no registered instance can take the job.
	ErrNoTransportAvailable = errors.New("no transport instance available")
)

// ConfigurationError reports an invalid setup: unregistered pool, zero
// capacity, kind mismatch, and similar. Fatal to the run, never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// InsufficientMaterialError reports a domain-level stock shortage, distinct
// from the capacity-resource layer. Callers abort the current unit of work
// and move on.
type InsufficientMaterialError struct {
	Material  string
	Requested float64
	Available float64
}

func (e *InsufficientMaterialError) Error() string {
	return fmt.Sprintf("insufficient %s: requested %.2f, available %.2f",
		e.Material, e.Requested, e.Available)
}
