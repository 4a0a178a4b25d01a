package sim

// Completion is the payload delivered through a Signal when an allocation
// reaches its handoff point (loading finished for transports, or the
// allocation was determined impossible).
type Completion struct {
	AllocationID   string
	RequesterID    string
	Success        bool
	CompletionTime int64
}

// Signal is a single-fire completion event. A requester subscribes a
// continuation; the continuation is scheduled on the event heap when the
// signal fires. Firing twice is a programmer error and panics.
type Signal struct {
	fired       bool
	payload     Completion
	subscribers []func(*Simulator, Completion)
}

// NewSignal creates an unfired Signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	return s.fired
}

// Payload returns the completion payload. Only meaningful after Fired().
func (s *Signal) Payload() Completion {
	return s.payload
}

// Subscribe registers fn to run when the signal fires. Subscribing after the
// fire still delivers the payload, at the current tick.
func (s *Signal) Subscribe(sim *Simulator, fn func(*Simulator, Completion)) {
	if s.fired {
		p := s.payload
		sim.Timeout(0, func(sim *Simulator) { fn(sim, p) })
		return
	}
	s.subscribers = append(s.subscribers, fn)
}

// Fire delivers the payload to every subscriber. Each subscriber runs as its
// own event at the current tick, preserving schedule order.
func (s *Signal) Fire(sim *Simulator, payload Completion) {
	if s.fired {
		panic("Signal: fired twice for allocation " + s.payload.AllocationID)
	}
	s.fired = true
	s.payload = payload
	for _, fn := range s.subscribers {
		fn := fn
		sim.Timeout(0, func(sim *Simulator) { fn(sim, payload) })
	}
	s.subscribers = nil
}

// WaitAll runs fn once every signal in signals has fired.
// An empty set fires immediately.
func WaitAll(sim *Simulator, signals []*Signal, fn func(*Simulator)) {
	remaining := len(signals)
	if remaining == 0 {
		sim.Timeout(0, fn)
		return
	}
	for _, sig := range signals {
		sig.Subscribe(sim, func(sim *Simulator, _ Completion) {
			remaining--
			if remaining == 0 {
				fn(sim)
			}
		})
	}
}

// WaitAny runs fn once, with the payload of whichever signal fires first.
// Later fires are ignored.
func WaitAny(sim *Simulator, signals []*Signal, fn func(*Simulator, Completion)) {
	done := false
	for _, sig := range signals {
		sig.Subscribe(sim, func(sim *Simulator, payload Completion) {
			if done {
				return
			}
			done = true
			fn(sim, payload)
		})
	}
}
