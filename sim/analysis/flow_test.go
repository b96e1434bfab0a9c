package analysis

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsim/flowsim/sim"
)

// twoOpChain returns a minimal chain with a third, never-visited
// operation to exercise the empty-group path.
func twoOpChain() *sim.Chain {
	return &sim.Chain{Operations: []sim.OperationDef{
		{ID: "OP1", Name: "Prep", MeanMinutes: 10, Stations: 1},
		{ID: "OP2", Name: "Machine", MeanMinutes: 20, DefectRate: 0.02, Stations: 1},
		{ID: "OP3", Name: "Pack", MeanMinutes: 5, Stations: 1},
	}}
}

// handLog builds a small fixed log: CASE-0001 flows straight through
// OP1 and OP2, CASE-0002 reworks OP2 once. OP3 never appears.
func handLog() sim.EventLog {
	return sim.EventLog{
		{CaseID: "CASE-0001", Activity: "Prep", OperationID: "OP1", Start: 0, End: 10, Station: "OP1_WS1", ReworkCount: 1, WaitMinutes: 0, CycleMinutes: 10},
		{CaseID: "CASE-0001", Activity: "Machine", OperationID: "OP2", Start: 10, End: 30, Station: "OP2_WS1", ReworkCount: 1, WaitMinutes: 0, CycleMinutes: 20},
		{CaseID: "CASE-0002", Activity: "Prep", OperationID: "OP1", Start: 10, End: 20, Station: "OP1_WS1", ReworkCount: 1, WaitMinutes: 5, CycleMinutes: 10},
		{CaseID: "CASE-0002", Activity: "Machine", OperationID: "OP2", Start: 30, End: 50, Station: "OP2_WS1", ReworkCount: 1, WaitMinutes: 10, CycleMinutes: 20},
		{CaseID: "CASE-0002", Activity: "Machine", OperationID: "OP2", Start: 50, End: 70, Station: "OP2_WS1", IsRework: true, ReworkCount: 2, WaitMinutes: 0, CycleMinutes: 20},
	}
}

func TestAnalyzeFlow_PerOperationStats(t *testing.T) {
	flow := AnalyzeFlow(handLog(), twoOpChain())
	require.Len(t, flow.Stats, 3)

	op2 := flow.StatsFor("OP2")
	require.NotNil(t, op2)
	assert.Equal(t, 3, op2.EventCount)
	assert.Equal(t, 2, op2.UniqueCases)
	assert.Equal(t, 1, op2.ReworkEvents)
	assert.InDelta(t, 10.0/3, op2.MeanWait, 1e-9)
	assert.Equal(t, 10.0, op2.MaxWait)
	assert.InDelta(t, 20.0, op2.MeanCycle, 1e-9)
	assert.InDelta(t, 60.0, op2.BusyMinutes, 1e-9)
	assert.Equal(t, 10.0, op2.FirstStart)
	assert.Equal(t, 70.0, op2.LastEnd)
}

func TestAnalyzeFlow_EmptyGroupContributesZeroCounts(t *testing.T) {
	flow := AnalyzeFlow(handLog(), twoOpChain())
	op3 := flow.StatsFor("OP3")
	require.NotNil(t, op3)
	assert.Equal(t, 0, op3.EventCount)
	assert.Equal(t, 0, op3.UniqueCases)
	assert.Equal(t, 0.0, op3.MeanWait)
	assert.Equal(t, 0.0, op3.MeanCycle)
}

func TestAnalyzeFlow_Compliance(t *testing.T) {
	// CASE-0001 follows OP1,OP2,OP3? No: the canonical sequence includes
	// OP3, so neither hand-built case is compliant against twoOpChain.
	flow := AnalyzeFlow(handLog(), twoOpChain())
	assert.Equal(t, 0.0, flow.Compliance)

	// Against a chain without OP3, the straight-through case complies
	// and the reworked one does not.
	chain := &sim.Chain{Operations: []sim.OperationDef{
		{ID: "OP1", Name: "Prep", MeanMinutes: 10, Stations: 1},
		{ID: "OP2", Name: "Machine", MeanMinutes: 20, Stations: 1},
	}}
	flow = AnalyzeFlow(handLog(), chain)
	assert.InDelta(t, 0.5, flow.Compliance, 1e-9)
}

func TestAnalyzeFlow_LeadTimes(t *testing.T) {
	flow := AnalyzeFlow(handLog(), twoOpChain())
	require.Len(t, flow.LeadTimes, 2)

	assert.Equal(t, "CASE-0001", flow.LeadTimes[0].CaseID)
	assert.InDelta(t, 30.0, flow.LeadTimes[0].LeadMinutes, 1e-9)
	assert.Equal(t, 0, flow.LeadTimes[0].Reworks)

	assert.Equal(t, "CASE-0002", flow.LeadTimes[1].CaseID)
	assert.InDelta(t, 60.0, flow.LeadTimes[1].LeadMinutes, 1e-9)
	assert.Equal(t, 1, flow.LeadTimes[1].Reworks)
	assert.InDelta(t, 15.0, flow.LeadTimes[1].WaitMinutes, 1e-9)

	assert.InDelta(t, 45.0, flow.MeanLeadMinutes(), 1e-9)
}

func TestAnalyzeFlow_EmptyLog(t *testing.T) {
	flow := AnalyzeFlow(nil, twoOpChain())
	assert.Len(t, flow.Stats, 3)
	assert.Equal(t, 0.0, flow.Compliance)
	assert.Empty(t, flow.LeadTimes)
	assert.Equal(t, 0.0, flow.MeanLeadMinutes())
}

func TestAnalyzeFlow_CSVRoundTripIdenticalStats(t *testing.T) {
	chain := sim.DefaultChain()
	s, err := sim.NewSimulator(chain, sim.DefaultSimConfig(200, 42))
	require.NoError(t, err)
	log, err := s.Run()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "event_log.csv")
	require.NoError(t, sim.WriteCSV(log, path))
	loaded, err := sim.ReadCSV(path)
	require.NoError(t, err)

	direct := AnalyzeFlow(log, chain)
	reparsed := AnalyzeFlow(loaded, chain)
	if !reflect.DeepEqual(direct, reparsed) {
		t.Fatal("flow analysis differs after CSV round-trip")
	}
}
