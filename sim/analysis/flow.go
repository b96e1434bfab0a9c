// Package analysis turns a completed event log into flow statistics,
// bottleneck classifications, rework waste figures, and ranked
// improvement recommendations. Everything here is a read-only view
// computed fresh from the log; nothing is mutated after construction.
package analysis

import (
	"sort"

	"github.com/flowsim/flowsim/sim"
)

// FlowStatistics summarizes one operation's traffic in the log.
type FlowStatistics struct {
	OperationID   string
	OperationName string
	EventCount    int
	UniqueCases   int
	ReworkEvents  int
	MeanWait      float64
	MaxWait       float64
	MeanCycle     float64

	// BusyMinutes, FirstStart and LastEnd feed the utilization
	// computation downstream.
	BusyMinutes float64
	FirstStart  float64
	LastEnd     float64
}

// CaseLeadTime is one case's end-to-end traversal of the chain.
type CaseLeadTime struct {
	CaseID      string
	LeadMinutes float64
	Reworks     int
	WaitMinutes float64
}

// FlowResult is the FlowAnalyzer output consumed by the detectors and
// the gain estimator.
type FlowResult struct {
	// Stats holds one entry per chain operation, in chain order.
	// Operations with no events contribute zero counts.
	Stats []FlowStatistics

	// Compliance is the fraction of cases whose full emitted operation
	// sequence equals the canonical chain order, i.e. cases untouched
	// by rework deviation.
	Compliance float64

	// LeadTimes holds one entry per case, sorted by case id.
	LeadTimes []CaseLeadTime
}

// AnalyzeFlow groups the log by operation and computes per-operation
// volumes and timing statistics, path compliance, and per-case lead times.
func AnalyzeFlow(log sim.EventLog, chain *sim.Chain) *FlowResult {
	groups := log.ByOperation()

	stats := make([]FlowStatistics, 0, len(chain.Operations))
	for _, op := range chain.Operations {
		stats = append(stats, operationStats(&op, groups[op.ID]))
	}

	leadTimes, compliance := caseStats(log, chain)
	return &FlowResult{
		Stats:      stats,
		Compliance: compliance,
		LeadTimes:  leadTimes,
	}
}

// StatsFor returns the statistics for the given operation, or nil.
func (r *FlowResult) StatsFor(opID string) *FlowStatistics {
	for i := range r.Stats {
		if r.Stats[i].OperationID == opID {
			return &r.Stats[i]
		}
	}
	return nil
}

// MeanLeadMinutes is the average case lead time, 0 for an empty log.
func (r *FlowResult) MeanLeadMinutes() float64 {
	if len(r.LeadTimes) == 0 {
		return 0
	}
	sum := 0.0
	for _, lt := range r.LeadTimes {
		sum += lt.LeadMinutes
	}
	return sum / float64(len(r.LeadTimes))
}

func operationStats(op *sim.OperationDef, events []sim.Event) FlowStatistics {
	st := FlowStatistics{
		OperationID:   op.ID,
		OperationName: op.Name,
	}
	if len(events) == 0 {
		return st
	}

	cases := make(map[string]bool)
	waitSum, cycleSum := 0.0, 0.0
	st.FirstStart = events[0].Start
	st.LastEnd = events[0].End
	for _, ev := range events {
		cases[ev.CaseID] = true
		if ev.IsRework {
			st.ReworkEvents++
		}
		waitSum += ev.WaitMinutes
		cycleSum += ev.CycleMinutes
		st.BusyMinutes += ev.End - ev.Start
		if ev.WaitMinutes > st.MaxWait {
			st.MaxWait = ev.WaitMinutes
		}
		if ev.Start < st.FirstStart {
			st.FirstStart = ev.Start
		}
		if ev.End > st.LastEnd {
			st.LastEnd = ev.End
		}
	}
	st.EventCount = len(events)
	st.UniqueCases = len(cases)
	st.MeanWait = waitSum / float64(len(events))
	st.MeanCycle = cycleSum / float64(len(events))
	return st
}

func caseStats(log sim.EventLog, chain *sim.Chain) ([]CaseLeadTime, float64) {
	byCase := log.ByCase()
	if len(byCase) == 0 {
		return nil, 0
	}

	canonical := chain.Sequence()
	compliant := 0
	leadTimes := make([]CaseLeadTime, 0, len(byCase))
	for caseID, events := range byCase {
		// Event logs are canonically sorted, so events arrive in start
		// order already; sort defensively for externally loaded logs.
		sort.SliceStable(events, func(i, j int) bool { return events[i].Start < events[j].Start })

		lt := CaseLeadTime{CaseID: caseID}
		first, last := events[0].Start, events[0].End
		trace := make([]string, 0, len(events))
		for _, ev := range events {
			trace = append(trace, ev.OperationID)
			if ev.IsRework {
				lt.Reworks++
			}
			lt.WaitMinutes += ev.WaitMinutes
			if ev.Start < first {
				first = ev.Start
			}
			if ev.End > last {
				last = ev.End
			}
		}
		lt.LeadMinutes = last - first
		leadTimes = append(leadTimes, lt)
		if equalSeq(trace, canonical) {
			compliant++
		}
	}
	sort.Slice(leadTimes, func(i, j int) bool { return leadTimes[i].CaseID < leadTimes[j].CaseID })
	return leadTimes, float64(compliant) / float64(len(byCase))
}

func equalSeq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
