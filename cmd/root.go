package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bookstore-sim/bookstore-sim/sim"
	"github.com/bookstore-sim/bookstore-sim/sim/facts"
	"github.com/bookstore-sim/bookstore-sim/sim/seed"
	"github.com/bookstore-sim/bookstore-sim/store"
)

var (
	// CLI flags for the simulation run
	steps          int    // Number of steps to advance
	seedFlag       int64  // Seed for reproducible activation ordering
	syncInterval   int    // Reasoner sync cadence override (in steps)
	purchasePolicy string // Customer purchase policy name
	logLevel       string // Log verbosity level
	noReasoner     bool   // Disable the reasoner, run heuristic-only

	// CLI flags for configuration and seed data
	configPath    string // Optional YAML config file
	inventoryPath string // Seed inventory JSON file
	customersPath string // Seed customers JSON file (optional)
	snapshotDB    string // SQLite snapshot store ("" = load seed files directly)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "bookstore-sim",
	Short: "Multi-agent simulator for a bookstore's daily operation",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bookstore simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			cfg, err = sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("Unable to load config: %v", err)
			}
		}
		if cmd.Flags().Changed("seed") {
			cfg.RandomSeed = seedFlag
		}
		if cmd.Flags().Changed("sync-interval") {
			cfg.ReasonerSyncInterval = syncInterval
		}
		if cmd.Flags().Changed("purchase-policy") {
			cfg.PurchasePolicy = purchasePolicy
		}
		if !cmd.Flags().Changed("steps") {
			steps = cfg.MaxSteps
		}

		source, cleanup, err := openSeedSource(cfg)
		if err != nil {
			logrus.Fatalf("Unable to open seed source: %v", err)
		}
		defer cleanup()

		var reasoner facts.Reasoner
		if !noReasoner {
			reasoner = facts.NewRuleReasoner()
		}

		m, err := sim.NewManager(cfg, source, reasoner)
		if err != nil {
			logrus.Fatalf("Unable to create simulation: %v", err)
		}

		logrus.Infof("Starting simulation: steps=%d, seed=%d, sync_interval=%d",
			steps, cfg.RandomSeed, cfg.ReasonerSyncInterval)
		result, err := m.Advance(context.Background(), sim.AdvanceOptions{Steps: steps})
		if err != nil {
			logrus.Fatalf("Advance failed: %v", err)
		}
		m.Report().Print()

		logrus.Infof("Simulation complete: advanced %d steps to step %d", result.StepsAdvanced, result.StepCount)
	},
}

// openSeedSource picks where the initial snapshot comes from. With a
// snapshot database configured, the seed files are loaded only once to
// bootstrap it; later runs and resets read the stored rows.
func openSeedSource(cfg sim.Config) (sim.SeedSource, func(), error) {
	files := &seed.FileSource{
		InventoryPath:    inventoryPath,
		CustomersPath:    customersPath,
		DefaultThreshold: cfg.RestockThreshold,
		DefaultBudget:    cfg.CustomerBudget,
	}
	if snapshotDB == "" {
		return files, func() {}, nil
	}
	s, err := store.Open(snapshotDB)
	if err != nil {
		return nil, nil, err
	}
	empty, err := s.Empty()
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	if empty {
		snap, err := files.Load()
		if err != nil {
			s.Close()
			return nil, nil, err
		}
		if err := s.Bootstrap(snap); err != nil {
			s.Close()
			return nil, nil, err
		}
	}
	return s, func() { s.Close() }, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&steps, "steps", 0, "Number of steps to advance (default: config max_steps)")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 12345, "Seed for reproducible agent activation ordering")
	runCmd.Flags().IntVar(&syncInterval, "sync-interval", 3, "Reasoner sync cadence in steps")
	runCmd.Flags().StringVar(&purchasePolicy, "purchase-policy", "random", "Customer purchase policy (random, greedy)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().BoolVar(&noReasoner, "no-reasoner", false, "Disable the reasoner and use the heuristic policy only")

	runCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	runCmd.Flags().StringVar(&inventoryPath, "inventory", "data/sample_inventory.json", "Seed inventory JSON file")
	runCmd.Flags().StringVar(&customersPath, "customers", "data/sample_customers.json", "Seed customers JSON file")
	runCmd.Flags().StringVar(&snapshotDB, "snapshot-db", "", "SQLite snapshot store path (empty = load seed files directly)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
