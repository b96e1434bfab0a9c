package analysis

import (
	"fmt"
	"sort"

	"github.com/flowsim/flowsim/sim"
)

// Category groups recommendations by the lever they pull.
type Category string

const (
	CategoryCapacity   Category = "Capacity"
	CategoryQuality    Category = "Quality"
	CategoryFlow       Category = "Flow"
	CategoryEfficiency Category = "Efficiency"
)

// categoryPriority breaks ranking ties: Capacity > Quality > Flow > Efficiency.
var categoryPriority = map[Category]int{
	CategoryCapacity:   0,
	CategoryQuality:    1,
	CategoryFlow:       2,
	CategoryEfficiency: 3,
}

// Confidence expresses how much the estimated reduction can be trusted.
type Confidence string

const (
	ConfidenceLow    Confidence = "Low"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceHigh   Confidence = "High"
)

// Recommendation is one ranked improvement action.
type Recommendation struct {
	Category     Category
	Operation    string // operation name, or "All" for process-wide actions
	Problem      string
	Action       string
	ReductionPct float64 // estimated lead-time reduction
	Confidence   Confidence
}

// GainEstimate aggregates the projected effect of all recommendations.
// DeltaWIPPct equals DeltaLeadPct under the constant-arrival-rate
// assumption linking WIP and lead time (Little's law).
type GainEstimate struct {
	LeadBeforeHours float64
	LeadAfterHours  float64
	DeltaLeadPct    float64
	DeltaWIPPct     float64
	GapBeforePct    float64 // distance to theoretical lead time, before
	GapAfterPct     float64 // distance to theoretical lead time, after
}

// GainConfig holds the trigger thresholds for process-wide recommendations.
type GainConfig struct {
	// MinTimeLostHours gates Quality recommendations: rework below this
	// waste level is not worth a corrective action.
	MinTimeLostHours float64

	// ComplianceThreshold triggers a Flow recommendation when the share
	// of canonical-path cases drops below it.
	ComplianceThreshold float64

	// EfficiencyThreshold triggers an Efficiency recommendation when the
	// value-add share of the lead time drops below it.
	EfficiencyThreshold float64
}

// DefaultGainConfig returns the standard thresholds.
func DefaultGainConfig() GainConfig {
	return GainConfig{
		MinTimeLostHours:    1.0,
		ComplianceThreshold: 0.90,
		EfficiencyThreshold: 0.60,
	}
}

// GainResult is the full recommendation engine output.
type GainResult struct {
	Recommendations []Recommendation // sorted by descending reduction
	TopActions      []Recommendation // the first three recommendations
	Estimate        GainEstimate
}

// EstimateGains generates ranked recommendations from the analysis
// outputs and projects the aggregate lead-time and WIP gains.
func EstimateGains(
	flow *FlowResult,
	bottlenecks []BottleneckRecord,
	rework []ReworkRecord,
	metrics OverallMetrics,
	chain *sim.Chain,
	cfg GainConfig,
) *GainResult {
	meanLead := flow.MeanLeadMinutes()
	var recs []Recommendation

	// Capacity: one extra station shrinks the queue in proportion to the
	// capacity increase, 1/n -> 1/(n+1).
	for _, b := range bottlenecks {
		if b.Severity != SeverityCritical {
			continue
		}
		op := chain.ByID(b.OperationID)
		st := flow.StatsFor(b.OperationID)
		if op == nil || st == nil || meanLead <= 0 {
			continue
		}
		n := float64(op.Stations)
		waitSaved := st.MeanWait * (1 - n/(n+1))
		recs = append(recs, Recommendation{
			Category:     CategoryCapacity,
			Operation:    op.Name,
			Problem:      fmt.Sprintf("Critical bottleneck with %.0f%% utilization", b.Utilization*100),
			Action:       fmt.Sprintf("Add 1 additional station to %s", op.Name),
			ReductionPct: waitSaved / meanLead * 100,
			Confidence:   ConfidenceHigh,
		})
	}

	// Quality: rework above expectation with material waste calls for
	// error-proofing at the source.
	for _, r := range rework {
		if r.ActualRate <= r.ExpectedRate || r.TimeLostHours <= cfg.MinTimeLostHours {
			continue
		}
		if meanLead <= 0 || metrics.TotalCases == 0 {
			continue
		}
		// Half the lost hours are assumed recoverable, spread per case.
		savedPerCase := r.TimeLostHours * 60 * 0.5 / float64(metrics.TotalCases)
		recs = append(recs, Recommendation{
			Category:     CategoryQuality,
			Operation:    r.OperationName,
			Problem:      fmt.Sprintf("Rework rate %.1f%% exceeds expected %.1f%%, wasting %.1fh", r.ActualRate*100, r.ExpectedRate*100, r.TimeLostHours),
			Action:       fmt.Sprintf("Implement error-proofing (poka-yoke) at %s", r.OperationName),
			ReductionPct: savedPerCase / meanLead * 100,
			Confidence:   ConfidenceMedium,
		})
	}

	if flow.Compliance < cfg.ComplianceThreshold {
		recs = append(recs, Recommendation{
			Category:     CategoryFlow,
			Operation:    "All",
			Problem:      fmt.Sprintf("Low process conformance (%.1f%% follow the canonical path)", flow.Compliance*100),
			Action:       "Implement standardized work instructions and training",
			ReductionPct: 2.0,
			Confidence:   ConfidenceLow,
		})
	}

	if metrics.Efficiency < cfg.EfficiencyThreshold {
		recs = append(recs, Recommendation{
			Category:     CategoryEfficiency,
			Operation:    "All",
			Problem:      fmt.Sprintf("Low process efficiency (%.1f%%)", metrics.Efficiency*100),
			Action:       "Apply lean principles (5S, SMED) to cut non-value time",
			ReductionPct: 5.0,
			Confidence:   ConfidenceMedium,
		})
	}

	sortRecommendations(recs)

	top := recs
	if len(top) > 3 {
		top = top[:3]
	}

	return &GainResult{
		Recommendations: recs,
		TopActions:      top,
		Estimate:        estimate(recs, metrics, chain),
	}
}

func sortRecommendations(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ReductionPct != recs[j].ReductionPct {
			return recs[i].ReductionPct > recs[j].ReductionPct
		}
		return categoryPriority[recs[i].Category] < categoryPriority[recs[j].Category]
	})
}

func estimate(recs []Recommendation, metrics OverallMetrics, chain *sim.Chain) GainEstimate {
	est := GainEstimate{
		LeadBeforeHours: metrics.MeanLeadHours,
		LeadAfterHours:  metrics.MeanLeadHours,
	}
	theoretical := chain.TheoreticalLeadMinutes() / 60

	totalPct := 0.0
	for _, r := range recs {
		totalPct += r.ReductionPct
	}
	after := est.LeadBeforeHours * (1 - totalPct/100)
	// The projection can never beat the queue-free, rework-free chain,
	// which also keeps the lead time strictly positive.
	if after < theoretical {
		after = theoretical
	}
	if after > est.LeadBeforeHours {
		after = est.LeadBeforeHours
	}
	est.LeadAfterHours = after

	if est.LeadBeforeHours > 0 {
		est.DeltaLeadPct = (est.LeadBeforeHours - est.LeadAfterHours) / est.LeadBeforeHours * 100
	}
	est.DeltaWIPPct = est.DeltaLeadPct

	if theoretical > 0 {
		est.GapBeforePct = (est.LeadBeforeHours - theoretical) / theoretical * 100
		est.GapAfterPct = (est.LeadAfterHours - theoretical) / theoretical * 100
	}
	return est
}
