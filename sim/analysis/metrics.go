package analysis

import (
	"sort"

	"github.com/flowsim/flowsim/sim"
)

// OverallMetrics aggregates process-wide figures over one log.
type OverallMetrics struct {
	TotalCases  int
	TotalEvents int

	MeanLeadHours   float64
	MedianLeadHours float64
	MinLeadHours    float64
	MaxLeadHours    float64

	TotalReworkEvents int
	ReworkRate        float64 // rework events / total events

	TotalWaitHours      float64
	MeanWaitCaseMinutes float64

	// Efficiency is the value-add share of the lead time: the sum of
	// per-operation mean cycle times over the mean case lead time.
	Efficiency float64
}

// ComputeOverallMetrics derives process-wide figures from the log and
// the flow analysis. An empty log yields all-zero metrics.
func ComputeOverallMetrics(log sim.EventLog, flow *FlowResult) OverallMetrics {
	m := OverallMetrics{
		TotalCases:  len(flow.LeadTimes),
		TotalEvents: len(log),
	}
	if len(log) == 0 || len(flow.LeadTimes) == 0 {
		return m
	}

	leads := make([]float64, 0, len(flow.LeadTimes))
	waitSum := 0.0
	for _, lt := range flow.LeadTimes {
		leads = append(leads, lt.LeadMinutes)
		waitSum += lt.WaitMinutes
	}
	sort.Float64s(leads)

	m.MeanLeadHours = mean(leads) / 60
	m.MedianLeadHours = median(leads) / 60
	m.MinLeadHours = leads[0] / 60
	m.MaxLeadHours = leads[len(leads)-1] / 60
	m.MeanWaitCaseMinutes = waitSum / float64(len(flow.LeadTimes))

	for _, ev := range log {
		if ev.IsRework {
			m.TotalReworkEvents++
		}
		m.TotalWaitHours += ev.WaitMinutes / 60
	}
	m.ReworkRate = float64(m.TotalReworkEvents) / float64(len(log))

	cycleSum := 0.0
	for _, st := range flow.Stats {
		cycleSum += st.MeanCycle
	}
	if meanLead := flow.MeanLeadMinutes(); meanLead > 0 {
		m.Efficiency = cycleSum / meanLead
	}
	return m
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median assumes vals is sorted and non-empty.
func median(vals []float64) float64 {
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
