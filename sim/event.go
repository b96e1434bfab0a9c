package sim

import "sort"

// Event records one executed operation instance. Timestamps are minutes
// from simulation start. Events are immutable once emitted.
//
// Invariants: End >= Start, CycleMinutes == End - Start, WaitMinutes is
// the gap between the case becoming ready and Start (zero when a station
// was already free).
type Event struct {
	CaseID       string
	Activity     string
	OperationID  string
	Start        float64
	End          float64
	Station      string
	IsRework     bool
	ReworkCount  int
	WaitMinutes  float64
	CycleMinutes float64
}

// EventLog is the ordered collection of events produced by one simulation
// run, canonically sorted by case id then start time. It is the contract
// boundary between simulation and analysis.
type EventLog []Event

// Sort puts the log into canonical order: case_id, then timestamp_start.
func (l EventLog) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].CaseID != l[j].CaseID {
			return l[i].CaseID < l[j].CaseID
		}
		return l[i].Start < l[j].Start
	})
}

// ByOperation groups events by operation id, preserving log order within
// each group. Group iteration order is the caller's concern; use the chain
// sequence for stable reporting.
func (l EventLog) ByOperation() map[string][]Event {
	groups := make(map[string][]Event)
	for _, ev := range l {
		groups[ev.OperationID] = append(groups[ev.OperationID], ev)
	}
	return groups
}

// ByCase groups events by case id, preserving log order within each group.
func (l EventLog) ByCase() map[string][]Event {
	groups := make(map[string][]Event)
	for _, ev := range l {
		groups[ev.CaseID] = append(groups[ev.CaseID], ev)
	}
	return groups
}

// CaseIDs returns the distinct case ids in sorted order.
func (l EventLog) CaseIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, ev := range l {
		if !seen[ev.CaseID] {
			seen[ev.CaseID] = true
			ids = append(ids, ev.CaseID)
		}
	}
	sort.Strings(ids)
	return ids
}
