package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/flowsim/flowsim/sim"
	"github.com/flowsim/flowsim/sim/analysis"
)

var (
	// CLI flags shared by the run and analyze commands
	seed         int64   // Seed for the simulator-owned random streams
	cases        int     // Number of cases to simulate
	chainPath    string  // Optional YAML operation chain (built-in default when empty)
	outputDir    string  // Output directory for the event log and report
	logLevel     string  // Log verbosity level
	interArrival float64 // Mean inter-arrival time between cases (minutes, 0 disables)
	minCycle     float64 // Floor for sampled cycle durations (minutes)
	maxRework    int     // Max rework executions per operation per case
	eventLogPath string  // Existing event log CSV to analyze
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "flowsim",
	Short: "Discrete-event simulator and flow analyzer for manufacturing chains",
}

// runCmd simulates an event log, persists it, and analyzes it.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate an event log and analyze it",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		chain := loadChain()

		cfg := sim.DefaultSimConfig(cases, seed)
		cfg.InterArrivalMinutes = interArrival
		cfg.MinCycleMinutes = minCycle
		cfg.MaxReworkPerOp = maxRework

		simulator, err := sim.NewSimulator(chain, cfg)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		startTime := time.Now()
		log, err := simulator.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation finished in %v", time.Since(startTime))

		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			logrus.Fatalf("Creating output directory: %v", err)
		}
		csvPath := filepath.Join(outputDir, "event_log.csv")
		if err := sim.WriteCSV(log, csvPath); err != nil {
			logrus.Fatalf("Writing event log: %v", err)
		}
		logrus.Infof("Event log written to %s", csvPath)

		analyzeLog(chain, log)
	},
}

// analyzeCmd re-runs the analysis over an externally supplied event log.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an existing event log CSV",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if eventLogPath == "" {
			logrus.Fatalf("--log is required")
		}
		chain := loadChain()

		log, err := sim.ReadCSV(eventLogPath)
		if err != nil {
			logrus.Fatalf("Loading event log: %v", err)
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			logrus.Fatalf("Creating output directory: %v", err)
		}
		analyzeLog(chain, log)
	},
}

// analyzeLog runs the full analysis pipeline and writes the report.
func analyzeLog(chain *sim.Chain, log sim.EventLog) {
	flow := analysis.AnalyzeFlow(log, chain)
	bottlenecks := analysis.DetectBottlenecks(flow, chain)
	rework := analysis.AnalyzeRework(flow, chain)
	metrics := analysis.ComputeOverallMetrics(log, flow)
	gains := analysis.EstimateGains(flow, bottlenecks, rework, metrics, chain, analysis.DefaultGainConfig())

	reportPath := filepath.Join(outputDir, "analysis_report.md")
	report := RenderReport(chain, flow, bottlenecks, rework, metrics, gains)
	if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil {
		logrus.Fatalf("Writing report: %v", err)
	}
	logrus.Infof("Report written to %s", reportPath)

	logrus.Infof("KPI summary: lead time %.2fh -> %.2fh, dWIP %.1f%%, dLead %.1f%%",
		gains.Estimate.LeadBeforeHours, gains.Estimate.LeadAfterHours,
		gains.Estimate.DeltaWIPPct, gains.Estimate.DeltaLeadPct)
	for i, action := range gains.TopActions {
		logrus.Infof("Top action %d [%s] %s: %s (-%.1f%% lead time)",
			i+1, action.Category, action.Operation, action.Action, action.ReductionPct)
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func loadChain() *sim.Chain {
	if chainPath == "" {
		return sim.DefaultChain()
	}
	chain, err := sim.LoadChain(chainPath)
	if err != nil {
		logrus.Fatalf("Loading chain: %v", err)
	}
	return chain
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, analyzeCmd} {
		cmd.Flags().StringVar(&chainPath, "chain", "", "YAML operation chain (built-in default when empty)")
		cmd.Flags().StringVar(&outputDir, "output-dir", "reports", "Output directory for the event log and report")
		cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	}
	runCmd.Flags().IntVar(&cases, "cases", 500, "Number of cases to simulate")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for reproducibility")
	runCmd.Flags().Float64Var(&interArrival, "inter-arrival", 30.0, "Mean inter-arrival time between cases in minutes (0 disables)")
	runCmd.Flags().Float64Var(&minCycle, "min-cycle", 5.0, "Minimum sampled cycle duration in minutes")
	runCmd.Flags().IntVar(&maxRework, "max-rework", 5, "Maximum rework executions per operation per case")
	analyzeCmd.Flags().StringVar(&eventLogPath, "log", "", "Event log CSV to analyze")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
