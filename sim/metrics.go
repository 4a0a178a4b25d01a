// Tracks simulation-wide allocation and production metrics.

package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about the simulation for final reporting.
// Useful for evaluating throughput, utilization and bottlenecks.
type Metrics struct {
	UnitsCompleted  int // production units fully processed and picked up
	UnitsAborted    int // units abandoned on domain-level shortage
	TransportCycles int // completed four-phase transport cycles

	SimEndedTime int64

	// per-pool wait samples (request tick -> grant tick), in ticks
	waitByPool map[string][]float64
	// per-pool pickup samples (request tick -> loading complete), in ticks
	pickupByPool map[string][]float64
}

// NewMetrics creates an empty Metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		waitByPool:   make(map[string][]float64),
		pickupByPool: make(map[string][]float64),
	}
}

// RecordWait stores one acquisition wait sample for a pool.
func (m *Metrics) RecordWait(poolName string, ticks float64) {
	m.waitByPool[poolName] = append(m.waitByPool[poolName], ticks)
}

// RecordPickup stores one request-to-pickup sample for a transport pool.
func (m *Metrics) RecordPickup(poolName string, ticks float64) {
	m.pickupByPool[poolName] = append(m.pickupByPool[poolName], ticks)
}

// WaitSummary returns mean and p95 of acquisition waits for a pool, in
// ticks. ok is false when the pool has no samples.
func (m *Metrics) WaitSummary(poolName string) (mean, p95 float64, ok bool) {
	return summarize(m.waitByPool[poolName])
}

// PickupSummary returns mean and p95 of request-to-pickup latency for a
// transport pool, in ticks.
func (m *Metrics) PickupSummary(poolName string) (mean, p95 float64, ok bool) {
	return summarize(m.pickupByPool[poolName])
}

func summarize(samples []float64) (mean, p95 float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)
	return stat.Mean(sorted, nil), stat.Quantile(0.95, stat.Empirical, sorted, nil), true
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Units Completed      : %d\n", m.UnitsCompleted)
	fmt.Printf("Units Aborted        : %d\n", m.UnitsAborted)
	fmt.Printf("Transport Cycles     : %d\n", m.TransportCycles)
	fmt.Printf("Sim Ended            : %d ticks\n", m.SimEndedTime)

	pools := make([]string, 0, len(m.waitByPool))
	for name := range m.waitByPool {
		pools = append(pools, name)
	}
	sort.Strings(pools)
	for _, name := range pools {
		mean, p95, _ := m.WaitSummary(name)
		fmt.Printf("Pool %-16s : wait mean %.1f ticks, p95 %.1f ticks (%d grants)\n",
			name, mean, p95, len(m.waitByPool[name]))
		if pMean, pP95, ok := m.PickupSummary(name); ok {
			fmt.Printf("Pool %-16s : pickup mean %.1f ticks, p95 %.1f ticks\n", name, pMean, pP95)
		}
	}
}
