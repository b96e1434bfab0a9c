package analysis

import (
	"fmt"

	"github.com/flowsim/flowsim/sim"
)

// Severity classifies how strongly an operation constrains throughput.
type Severity string

const (
	SeverityNone     Severity = "None"
	SeverityModerate Severity = "Moderate"
	SeverityCritical Severity = "Critical"
)

// Classification thresholds. An operation is Critical when any metric
// crosses its threshold; Moderate when any metric reaches 80% of one.
const (
	criticalWaitCycleRatio = 1.0
	criticalMaxWaitFactor  = 3.0
	criticalUtilization    = 0.85
	moderateBand           = 0.8
)

// BottleneckRecord is the classification of one operation.
type BottleneckRecord struct {
	OperationID   string
	OperationName string
	WaitRatio     float64 // mean wait / mean cycle; 0 when mean cycle is 0
	Utilization   float64 // busy station-time / (span * stations), in [0, 1]
	Severity      Severity
	Causes        []string
}

// DetectBottlenecks classifies every chain operation from the flow
// statistics. Records come back in chain order.
func DetectBottlenecks(flow *FlowResult, chain *sim.Chain) []BottleneckRecord {
	records := make([]BottleneckRecord, 0, len(chain.Operations))
	for _, op := range chain.Operations {
		st := flow.StatsFor(op.ID)
		records = append(records, classify(&op, st))
	}
	return records
}

func classify(op *sim.OperationDef, st *FlowStatistics) BottleneckRecord {
	rec := BottleneckRecord{
		OperationID:   op.ID,
		OperationName: op.Name,
		Severity:      SeverityNone,
	}
	if st == nil || st.EventCount == 0 {
		return rec
	}

	// Ratio is undefined for a zero mean cycle; it resolves to 0 and
	// contributes nothing to severity, never an error.
	if st.MeanCycle > 0 {
		rec.WaitRatio = st.MeanWait / st.MeanCycle
	}
	rec.Utilization = utilization(st, op.Stations)

	waitExceeds := rec.WaitRatio > criticalWaitCycleRatio
	persistentQueue := st.MeanCycle > 0 && st.MaxWait > criticalMaxWaitFactor*st.MeanCycle
	highUtil := rec.Utilization > criticalUtilization

	if waitExceeds || persistentQueue || highUtil {
		rec.Severity = SeverityCritical
		// Cause order is fixed: wait-exceeds-cycle, then persistent
		// queue, then utilization.
		if waitExceeds {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"Wait time (%.1fmin) exceeds cycle time (%.1fmin)", st.MeanWait, st.MeanCycle))
		}
		if persistentQueue {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"Max wait (%.1fmin) is 3x+ cycle time", st.MaxWait))
		}
		if highUtil {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"High utilization (%.1f%%)", rec.Utilization*100))
		}
		return rec
	}

	nearWait := rec.WaitRatio > moderateBand*criticalWaitCycleRatio
	nearQueue := st.MeanCycle > 0 && st.MaxWait > moderateBand*criticalMaxWaitFactor*st.MeanCycle
	nearUtil := rec.Utilization > moderateBand*criticalUtilization
	if nearWait || nearQueue || nearUtil {
		rec.Severity = SeverityModerate
		if nearWait {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"Wait time (%.1fmin) approaching cycle time (%.1fmin)", st.MeanWait, st.MeanCycle))
		}
		if nearQueue {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"Max wait (%.1fmin) approaching 3x cycle time", st.MaxWait))
		}
		if nearUtil {
			rec.Causes = append(rec.Causes, fmt.Sprintf(
				"Elevated utilization (%.1f%%)", rec.Utilization*100))
		}
	}
	return rec
}

// utilization is busy station-time over the operation's observed span
// times its station count, clamped to [0, 1]. A zero span yields 0.
func utilization(st *FlowStatistics, stations int) float64 {
	span := st.LastEnd - st.FirstStart
	if span <= 0 || stations < 1 {
		return 0
	}
	u := st.BusyMinutes / (span * float64(stations))
	if u > 1 {
		return 1
	}
	if u < 0 {
		return 0
	}
	return u
}
