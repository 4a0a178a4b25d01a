package trace

// Summary aggregates statistics from a PlantTrace.
type Summary struct {
	PoolsRegistered      int
	TransportsRegistered int
	Requested            int
	Granted              int
	Released             int
	Failed               int
	Cancelled            int
	CyclesByTransport    map[string]int // transport ID → completed loading phases
}

// Summarize computes aggregate statistics from a PlantTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(pt *PlantTrace) *Summary {
	summary := &Summary{
		CyclesByTransport: make(map[string]int),
	}
	if pt == nil {
		return summary
	}

	for _, r := range pt.Registrations {
		if r.TransportID == "" {
			summary.PoolsRegistered++
		} else {
			summary.TransportsRegistered++
		}
	}

	for _, a := range pt.Allocations {
		switch a.Action {
		case ActionRequested:
			summary.Requested++
		case ActionGranted:
			summary.Granted++
		case ActionReleased:
			summary.Released++
		case ActionFailed:
			summary.Failed++
		case ActionCancelled:
			summary.Cancelled++
		}
	}

	for _, p := range pt.Phases {
		if p.Phase == "loading" {
			summary.CyclesByTransport[p.TransportID]++
		}
	}

	return summary
}
