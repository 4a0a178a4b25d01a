package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_WaitSummary(t *testing.T) {
	m := NewMetrics()
	for _, w := range []float64{0, 100, 200, 300, 400} {
		m.RecordWait("mills", w)
	}

	mean, p95, ok := m.WaitSummary("mills")
	assert.True(t, ok)
	assert.Equal(t, 200.0, mean)
	assert.Equal(t, 400.0, p95)
}

func TestMetrics_NoSamples(t *testing.T) {
	m := NewMetrics()

	_, _, ok := m.WaitSummary("mills")
	assert.False(t, ok)
	_, _, ok = m.PickupSummary("agv")
	assert.False(t, ok)
}

func TestMetrics_PickupSummaryPerPool(t *testing.T) {
	m := NewMetrics()
	m.RecordPickup("agv", 300)
	m.RecordPickup("agv", 1200)
	m.RecordPickup("forklift", 500)

	mean, _, ok := m.PickupSummary("agv")
	assert.True(t, ok)
	assert.Equal(t, 750.0, mean)

	mean, _, ok = m.PickupSummary("forklift")
	assert.True(t, ok)
	assert.Equal(t, 500.0, mean)
}
