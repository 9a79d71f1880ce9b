package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/hostcap-sim/hostcap-sim/sim"
)

var (
	// CLI flags
	scenarioPath string  // Path to the YAML scenario description
	interval     float64 // Scheduling interval override
	horizon      float64 // Simulation horizon override (0 = run until the queue drains)
	logLevel     string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hostcap-sim",
	Short: "Discrete-event simulator for host capacity under VM workloads",
}

// runCmd executes the simulation described by the scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a host capacity simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}

		cfg, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to read scenario file: %v", err)
		}

		// CLI overrides win over the scenario file
		if cmd.Flags().Changed("interval") {
			cfg.Interval = interval
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = horizon
		}

		logrus.Infof("Starting simulation with %d host(s), interval=%v, horizon=%v",
			len(cfg.Hosts), cfg.Interval, cfg.Horizon)

		startTime := time.Now() // Get current time (start)

		s, err := sim.BuildScenario(cfg, nil)
		if err != nil {
			logrus.Fatalf("invalid scenario: %v", err)
		}
		s.Run()
		s.Metrics.Print()

		logrus.Infof("Simulation complete in %v.", time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file")
	runCmd.Flags().Float64Var(&interval, "interval", 1.0, "Scheduling interval between host updates")
	runCmd.Flags().Float64Var(&horizon, "horizon", 0, "Simulation horizon (0 = run until the event queue drains)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
