package cmd

import (
	"fmt"
	"strings"
	"time"

	sim "github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/sim/analysis"
)

// RenderReport formats the structured analysis results as a markdown
// document. Formatting lives here, outside the core, on purpose: the
// analysis package only hands over plain result values.
func RenderReport(
	chain *sim.Chain,
	flow *analysis.FlowResult,
	bottlenecks []analysis.BottleneckRecord,
	rework []analysis.ReworkRecord,
	metrics analysis.OverallMetrics,
	gains *analysis.GainResult,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Manufacturing Flow Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## 1. Executive Summary\n\n")
	fmt.Fprintf(&b, "This analysis covers **%d** cases comprising **%d** events. ", metrics.TotalCases, metrics.TotalEvents)
	fmt.Fprintf(&b, "The current average lead time is **%.2f hours**.\n\n", metrics.MeanLeadHours)
	fmt.Fprintf(&b, "| Metric | Current | After Optimization |\n")
	fmt.Fprintf(&b, "|--------|---------|--------------------|\n")
	fmt.Fprintf(&b, "| Average Lead Time | %.2fh | %.2fh (-%.1f%%) |\n",
		gains.Estimate.LeadBeforeHours, gains.Estimate.LeadAfterHours, gains.Estimate.DeltaLeadPct)
	fmt.Fprintf(&b, "| Estimated WIP Reduction | - | -%.1f%% |\n", gains.Estimate.DeltaWIPPct)
	fmt.Fprintf(&b, "| Process Efficiency | %.1f%% | >70%% target |\n", metrics.Efficiency*100)
	fmt.Fprintf(&b, "| Rework Rate | %.1f%% | <2%% target |\n\n", metrics.ReworkRate*100)

	fmt.Fprintf(&b, "## 2. Operations Chain\n\n")
	for _, op := range chain.Operations {
		fmt.Fprintf(&b, "- **%s**: %s - mean %.0fmin, %d station(s), defect rate %.1f%%\n",
			op.ID, op.Name, op.MeanMinutes, op.Stations, op.DefectRate*100)
	}
	fmt.Fprintf(&b, "\nTheoretical minimum lead time: %.1f minutes (%.2f hours)\n\n",
		chain.TheoreticalLeadMinutes(), chain.TheoreticalLeadMinutes()/60)

	fmt.Fprintf(&b, "## 3. Flow Discovery\n\n")
	fmt.Fprintf(&b, "| Operation | Events | Unique Cases | Rework Events | Mean Cycle (min) | Mean Wait (min) | Max Wait (min) |\n")
	fmt.Fprintf(&b, "|-----------|--------|--------------|---------------|------------------|-----------------|----------------|\n")
	for _, st := range flow.Stats {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %.1f | %.1f | %.1f |\n",
			st.OperationID, st.EventCount, st.UniqueCases, st.ReworkEvents,
			st.MeanCycle, st.MeanWait, st.MaxWait)
	}
	fmt.Fprintf(&b, "\n**%.1f%%** of cases follow the canonical path without rework deviation.\n\n",
		flow.Compliance*100)

	fmt.Fprintf(&b, "## 4. Bottleneck Analysis\n\n")
	fmt.Fprintf(&b, "| Operation | Wait/Cycle Ratio | Utilization | Severity | Causes |\n")
	fmt.Fprintf(&b, "|-----------|------------------|-------------|----------|--------|\n")
	for _, rec := range bottlenecks {
		causes := "N/A"
		if len(rec.Causes) > 0 {
			causes = strings.Join(rec.Causes, "; ")
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.0f%% | %s | %s |\n",
			rec.OperationName, rec.WaitRatio, rec.Utilization*100, rec.Severity, causes)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## 5. Rework Sources\n\n")
	fmt.Fprintf(&b, "| Operation | Expected Defect Rate | Actual Rework Rate | Time Lost (h) |\n")
	fmt.Fprintf(&b, "|-----------|----------------------|--------------------|---------------|\n")
	for _, rec := range rework {
		fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %.1f |\n",
			rec.OperationName, rec.ExpectedRate*100, rec.ActualRate*100, rec.TimeLostHours)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "## 6. Recommendations\n\n")
	for i, rec := range gains.Recommendations {
		fmt.Fprintf(&b, "### Recommendation %d: %s\n", i+1, rec.Category)
		fmt.Fprintf(&b, "- **Operation:** %s\n", rec.Operation)
		fmt.Fprintf(&b, "- **Problem:** %s\n", rec.Problem)
		fmt.Fprintf(&b, "- **Action:** %s\n", rec.Action)
		fmt.Fprintf(&b, "- **Estimated lead time reduction:** %.1f%%\n", rec.ReductionPct)
		fmt.Fprintf(&b, "- **Confidence:** %s\n\n", rec.Confidence)
	}

	fmt.Fprintf(&b, "## 7. Potential Gains\n\n")
	fmt.Fprintf(&b, "| Indicator | Value |\n")
	fmt.Fprintf(&b, "|-----------|-------|\n")
	fmt.Fprintf(&b, "| Current Lead Time | %.2fh |\n", gains.Estimate.LeadBeforeHours)
	fmt.Fprintf(&b, "| Projected Lead Time | %.2fh |\n", gains.Estimate.LeadAfterHours)
	fmt.Fprintf(&b, "| dWIP | -%.1f%% |\n", gains.Estimate.DeltaWIPPct)
	fmt.Fprintf(&b, "| dLead Time | -%.1f%% |\n", gains.Estimate.DeltaLeadPct)
	fmt.Fprintf(&b, "| Gap to Theoretical (before) | +%.1f%% |\n", gains.Estimate.GapBeforePct)
	fmt.Fprintf(&b, "| Gap to Theoretical (after) | +%.1f%% |\n\n", gains.Estimate.GapAfterPct)

	fmt.Fprintf(&b, "## 8. Top 3 Priority Actions\n\n")
	for i, action := range gains.TopActions {
		fmt.Fprintf(&b, "%d. **[%s]** %s (target: %s, expected impact: -%.1f%% lead time)\n",
			i+1, action.Category, action.Action, action.Operation, action.ReductionPct)
	}
	fmt.Fprintf(&b, "\n")

	return b.String()
}
