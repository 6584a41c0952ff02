package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/dsplay/sim/telemetry"
	"github.com/inference-sim/dsplay/sim/workload"
)

var (
	configPath     string  // Optional YAML run config
	queueKind      string  // Pending-event set implementation
	seed           int64   // Seed for the workload RNG streams
	startTime      float64 // Clock value the run starts at
	horizon        float64 // Stop before firing anything later than this
	maxEvents      int64   // Stop after this many firings
	population     int     // Hold model population
	dist           string  // Increment distribution name
	distParams     map[string]string
	cancelProb     float64 // Per-firing chance of cancelling another member
	rescheduleProb float64 // Per-firing chance of moving another member
	logLevel       string  // Log verbosity level
	traceLevel     string  // Firing trace level
	metricsOut     string  // Prometheus text dump of the queue's tiers
	verify         bool    // Replay on the heap baseline and compare
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dsplay",
	Short: "Discrete-event simulation kernel with a three-tier splay-tree event queue",
}

// runCmd executes a hold-model simulation using a config file and flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the hold-model benchmark",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg, err := buildRunConfig(cmd)
		if err != nil {
			return err
		}

		if verify {
			if err := Verify(cfg); err != nil {
				return err
			}
		}

		res, err := Simulate(cfg)
		if err != nil {
			return err
		}
		PrintReport(cmd.OutOrStdout(), res)

		if metricsOut != "" {
			if res.Dsplay == nil {
				logrus.Warnf("--metrics-out ignored: queue %q has no tiers", cfg.Queue)
				return nil
			}
			if err := writeMetrics(metricsOut, res); err != nil {
				return err
			}
		}
		logrus.Info("Simulation complete.")
		return nil
	},
}

// buildRunConfig loads --config, if given, then applies every flag the user
// set explicitly on top of it.
func buildRunConfig(cmd *cobra.Command) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadRunConfig(configPath); err != nil {
			return cfg, err
		}
	}
	f := cmd.Flags()
	if f.Changed("queue") {
		cfg.Queue = queueKind
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("start") {
		cfg.Start = startTime
	}
	if f.Changed("horizon") {
		cfg.Horizon = horizon
	}
	if f.Changed("max-events") {
		cfg.MaxEvents = maxEvents
	}
	if f.Changed("trace") {
		cfg.Trace = traceLevel
	}
	if f.Changed("population") {
		cfg.Hold.Population = population
	}
	if f.Changed("dist") {
		cfg.Hold.Increment.Type = dist
		cfg.Hold.Increment.Params = nil
	}
	if f.Changed("dist-param") {
		params, err := parseDistParams(distParams)
		if err != nil {
			return cfg, err
		}
		cfg.Hold.Increment.Params = params
	}
	if f.Changed("cancel-prob") {
		cfg.Hold.CancelProb = cancelProb
	}
	if f.Changed("reschedule-prob") {
		cfg.Hold.RescheduleProb = rescheduleProb
	}
	return cfg, cfg.Validate()
}

func parseDistParams(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for k, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("--dist-param %s=%q: %w", k, v, err)
		}
		out[k] = f
	}
	return out, nil
}

func writeMetrics(path string, res *RunResult) error {
	reg, err := telemetry.NewRegistry(telemetry.NewCollector("dsplay", res.Dsplay))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()
	if err := telemetry.WriteText(f, reg); err != nil {
		return err
	}
	logrus.Infof("Queue metrics written to %s", path)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	def := DefaultRunConfig()

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run config; explicit flags override it")
	runCmd.Flags().StringVar(&queueKind, "queue", def.Queue, "Pending-event set (dsplay, heap)")
	runCmd.Flags().Int64Var(&seed, "seed", def.Seed, "Seed for the workload RNG streams")
	runCmd.Flags().Float64Var(&startTime, "start", def.Start, "Clock value the run starts at")
	runCmd.Flags().Float64Var(&horizon, "horizon", def.Horizon, "Simulation horizon (<= 0 for none)")
	runCmd.Flags().Int64Var(&maxEvents, "max-events", def.MaxEvents, "Stop after this many firings (0 for no limit)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&traceLevel, "trace", def.Trace, "Firing trace level (none, firings)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write the queue's tier metrics in Prometheus text format to this file")
	runCmd.Flags().BoolVar(&verify, "verify", false, "Replay the run on the heap baseline and compare firing times first")

	// Hold model
	runCmd.Flags().IntVar(&population, "population", def.Hold.Population, "Number of events kept pending")
	runCmd.Flags().StringVar(&dist, "dist", def.Hold.Increment.Type, fmt.Sprintf("Increment distribution (%s)", validDists()))
	runCmd.Flags().StringToStringVar(&distParams, "dist-param", nil, "Distribution parameters, e.g. mean=2,far_weight=0.2")
	runCmd.Flags().Float64Var(&cancelProb, "cancel-prob", def.Hold.CancelProb, "Per-firing chance of cancelling another member")
	runCmd.Flags().Float64Var(&rescheduleProb, "reschedule-prob", def.Hold.RescheduleProb, "Per-firing chance of rescheduling another member")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

func validDists() string {
	return strings.Join(workload.ValidDistributions, ", ")
}
