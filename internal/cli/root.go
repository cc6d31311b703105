package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/sensorsim/internal/config"
	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/JonMunkholm/sensorsim/internal/logging"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	opts    overrides

	// cfg is populated by the root PersistentPreRunE before any subcommand runs.
	cfg *config.Config
)

// overrides holds flag values that replace configuration for a single run.
type overrides struct {
	databaseURL     string
	driver          string
	sensor          string
	controller      string
	line            string
	factory         string
	count           int
	start           string
	seed            int64
	out             string
	referencePolicy string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sensorsim",
	Short: "Benzene sensor reading simulator",
	Long: `Generates synthetic benzene concentration readings for one sensor,
classifies and fingerprints them, exports them to an .xlsx workbook and
bulk-loads them into the production readings table.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI. Interrupts cancel any blocking database call.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		slog.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
	}
	return err
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	f.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	f.StringVar(&opts.driver, "driver", "", "Database backend: postgres or sqlite (overrides DB_DRIVER)")
	f.StringVar(&opts.sensor, "sensor", "", "Sensor identifier (overrides SENSOR_ID)")
	f.StringVar(&opts.controller, "controller", "", "Controller identifier (overrides CONTROLLER_ID)")
	f.StringVar(&opts.line, "line", "", "Line identifier (overrides LINE_ID)")
	f.StringVar(&opts.factory, "factory", "", "Factory identifier (overrides FACTORY_ID)")
	f.IntVar(&opts.count, "count", 0, "Number of readings to generate (overrides SIM_COUNT)")
	f.StringVar(&opts.start, "start", "", "First reading, "+config.StartLayout+" (overrides SIM_START)")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed, 0 for clock-derived (overrides SIM_SEED)")
	f.StringVar(&opts.out, "out", "", "Export directory (overrides EXPORT_DIR)")
	f.StringVar(&opts.referencePolicy, "reference-policy", "", "warn or fail on unknown identifiers (overrides REFERENCE_POLICY)")

	rootCmd.AddCommand(runCmd, generateCmd, loadCmd)
}

// setup loads configuration, configures logging and tags the context with a run ID.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, loaded); err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logging.Setup(level, cfg.Logging.Format)

	ctx := core.ContextWithRunID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)

	log := logging.FromContext(ctx)
	if envErr != nil {
		log.Debug("no .env file found, using environment variables")
	}
	log.Debug("configuration loaded", "config", cfg.String())
	log.Info("run started", "command", cmd.Name())

	return nil
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cmd *cobra.Command, c *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("database-url") {
		c.Database.URL = opts.databaseURL
	}
	if changed("driver") {
		c.Database.Driver = opts.driver
	}
	if changed("sensor") {
		c.Equipment.SensorID = opts.sensor
	}
	if changed("controller") {
		c.Equipment.ControllerID = opts.controller
	}
	if changed("line") {
		c.Equipment.LineID = opts.line
	}
	if changed("factory") {
		c.Equipment.FactoryID = opts.factory
	}
	if changed("count") {
		c.Simulation.Count = opts.count
	}
	if changed("start") {
		start, err := config.ParseStart(opts.start)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		c.Simulation.Start = start
	}
	if changed("seed") {
		c.Simulation.Seed = opts.seed
	}
	if changed("out") {
		c.Export.Dir = opts.out
	}
	if changed("reference-policy") {
		c.Reference.Policy = opts.referencePolicy
	}

	return nil
}
