package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsim/flowsim/sim"
)

func TestAnalyzeRework_Formulas(t *testing.T) {
	flow := AnalyzeFlow(handLog(), twoOpChain())
	recs := AnalyzeRework(flow, twoOpChain())
	require.Len(t, recs, 3)

	op2 := recs[1]
	assert.Equal(t, "OP2", op2.OperationID)
	assert.Equal(t, 0.02, op2.ExpectedRate)
	assert.Equal(t, 1, op2.ReworkEvents)
	assert.InDelta(t, 1.0/3, op2.ActualRate, 1e-9)
	// 1 rework event at a 20min mean cycle.
	assert.InDelta(t, 20.0/60, op2.TimeLostHours, 1e-9)
}

func TestAnalyzeRework_ZeroReworkYieldsZeros(t *testing.T) {
	flow := AnalyzeFlow(handLog(), twoOpChain())
	recs := AnalyzeRework(flow, twoOpChain())

	op1 := recs[0]
	assert.Equal(t, "OP1", op1.OperationID)
	assert.Equal(t, 0, op1.ReworkEvents)
	assert.Equal(t, 0.0, op1.ActualRate)
	assert.Equal(t, 0.0, op1.TimeLostHours)

	// OP3 has no events at all; everything stays zero.
	op3 := recs[2]
	assert.Equal(t, 0.0, op3.ActualRate)
	assert.Equal(t, 0.0, op3.TimeLostHours)
}

func TestAnalyzeRework_FieldsNonNegative(t *testing.T) {
	chain := sim.DefaultChain()
	s, err := sim.NewSimulator(chain, sim.DefaultSimConfig(300, 42))
	require.NoError(t, err)
	log, err := s.Run()
	require.NoError(t, err)

	flow := AnalyzeFlow(log, chain)
	for _, rec := range AnalyzeRework(flow, chain) {
		assert.GreaterOrEqual(t, rec.ActualRate, 0.0)
		assert.GreaterOrEqual(t, rec.TimeLostHours, 0.0)
		assert.GreaterOrEqual(t, rec.ReworkEvents, 0)
	}
}
