package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeOverallMetrics(t *testing.T) {
	log := handLog()
	chain := twoOpChain()
	flow := AnalyzeFlow(log, chain)
	m := ComputeOverallMetrics(log, flow)

	assert.Equal(t, 2, m.TotalCases)
	assert.Equal(t, 5, m.TotalEvents)
	assert.Equal(t, 1, m.TotalReworkEvents)
	assert.InDelta(t, 0.2, m.ReworkRate, 1e-9)

	assert.InDelta(t, 45.0/60, m.MeanLeadHours, 1e-9)
	assert.InDelta(t, 45.0/60, m.MedianLeadHours, 1e-9)
	assert.InDelta(t, 30.0/60, m.MinLeadHours, 1e-9)
	assert.InDelta(t, 60.0/60, m.MaxLeadHours, 1e-9)

	assert.InDelta(t, 15.0/60, m.TotalWaitHours, 1e-9)
	assert.InDelta(t, 7.5, m.MeanWaitCaseMinutes, 1e-9)

	// Mean cycles: OP1 10, OP2 20, OP3 0 (no events); mean lead 45min.
	assert.InDelta(t, 30.0/45.0, m.Efficiency, 1e-9)
}

func TestComputeOverallMetrics_EmptyLog(t *testing.T) {
	flow := AnalyzeFlow(nil, twoOpChain())
	m := ComputeOverallMetrics(nil, flow)
	assert.Equal(t, OverallMetrics{}, m)
}

func TestMedian_OddAndEven(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{1, 3, 9}))
	assert.Equal(t, 2.5, median([]float64{1, 2, 3, 9}))
}
