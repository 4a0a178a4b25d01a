package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/factory-sim/factory-sim/sim"
	"github.com/factory-sim/factory-sim/sim/trace"
)

var (
	// CLI flags
	seed         int64  // Seed for stochastic duration and arrival sampling
	scenarioPath string // Scenario YAML path; empty runs the built-in default plant
	logLevel     string // Log verbosity level
	traceLevel   string // Lifecycle trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "factory-sim",
	Short: "Discrete-event simulator for manufacturing plants",
}

// runCmd executes a simulation scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a plant simulation scenario",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		sc := DefaultScenario()
		if scenarioPath != "" {
			sc, err = LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Loading scenario: %v", err)
			}
		}

		s, lines, err := BuildSimulator(sc, seed)
		if err != nil {
			logrus.Fatalf("Building simulator: %v", err)
		}
		s.Trace.Config.Level = trace.Level(traceLevel)

		for _, line := range lines {
			if err := line.Start(s); err != nil {
				logrus.Fatalf("Starting line %s: %v", line.ID, err)
			}
		}

		s.Run()
		s.Metrics.Print()
		printPoolStatus(s)
		printTraceSummary(s)
	},
}

// printPoolStatus reports per-pool utilization at the end of the run.
func printPoolStatus(s *sim.Simulator) {
	fmt.Println("=== Pool Utilization ===")
	for _, name := range s.Resources.PoolNames() {
		st, err := s.Resources.Status(name)
		if err != nil {
			continue
		}
		elapsed := s.Metrics.SimEndedTime
		utilization := 0.0
		if elapsed > 0 {
			utilization = float64(st.BusyTicks) / float64(int64(st.Capacity)*elapsed)
		}
		fmt.Printf("%-20s kind=%-9s capacity=%d fleet=%d utilization=%.1f%%\n",
			st.Name, st.Kind, st.Capacity, st.Fleet, utilization*100)
	}
}

// printTraceSummary reports aggregate lifecycle counts.
func printTraceSummary(s *sim.Simulator) {
	summary := trace.Summarize(s.Trace)
	fmt.Println("=== Allocation Summary ===")
	fmt.Printf("Requested: %d  Granted: %d  Released: %d  Failed: %d  Cancelled: %d\n",
		summary.Requested, summary.Granted, summary.Released, summary.Failed, summary.Cancelled)
	ids := make([]string, 0, len(summary.CyclesByTransport))
	for id := range summary.CyclesByTransport {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("Transport %-12s cycles=%d\n", id, summary.CyclesByTransport[id])
	}
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for stochastic sampling")
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario YAML path (default: built-in demo plant)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "lifecycle", "Lifecycle trace level (none, lifecycle)")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
