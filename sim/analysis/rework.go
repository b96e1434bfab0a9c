package analysis

import "github.com/flowsim/flowsim/sim"

// ReworkRecord quantifies rework waste at one operation. All fields are
// non-negative by construction; an operation with zero rework events has
// zero actual rate and zero time lost.
type ReworkRecord struct {
	OperationID   string
	OperationName string
	ExpectedRate  float64 // configured defect rate
	ActualRate    float64 // rework events / total events
	ReworkEvents  int
	TimeLostHours float64
}

// AnalyzeRework compares, per operation, the observed rework rate with
// the configured defect rate and prices the time lost to repeats.
// Records come back in chain order.
func AnalyzeRework(flow *FlowResult, chain *sim.Chain) []ReworkRecord {
	records := make([]ReworkRecord, 0, len(chain.Operations))
	for _, op := range chain.Operations {
		rec := ReworkRecord{
			OperationID:   op.ID,
			OperationName: op.Name,
			ExpectedRate:  op.DefectRate,
		}
		if st := flow.StatsFor(op.ID); st != nil && st.EventCount > 0 {
			rec.ReworkEvents = st.ReworkEvents
			rec.ActualRate = float64(st.ReworkEvents) / float64(st.EventCount)
			rec.TimeLostHours = float64(st.ReworkEvents) * st.MeanCycle / 60
		}
		records = append(records, rec)
	}
	return records
}
