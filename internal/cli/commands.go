package cli

import (
	"github.com/JonMunkholm/sensorsim/internal/logging"
	"github.com/JonMunkholm/sensorsim/internal/spreadsheet"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate, export and load readings",
	Long: `Generate the configured series, write it to an .xlsx workbook and
insert it into the readings table in a single transaction. When INFLUX_URL
is set the readings are also written to InfluxDB.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		readings := generateReadings(ctx, cfg)
		if _, err := exportReadings(ctx, cfg, readings); err != nil {
			return err
		}
		if err := loadReadings(ctx, cfg, readings); err != nil {
			return err
		}
		mirrorToInflux(ctx, cfg, readings)
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate and export readings without touching the database",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, err := exportReadings(ctx, cfg, generateReadings(ctx, cfg))
		return err
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <file.xlsx>",
	Short: "Load a previously exported workbook",
	Long: `Read a workbook written by "run" or "generate", verify the integrity
hash of every reading and insert them into the readings table.

Examples:
  sensorsim load lecturas-sensor_A1S01.xlsx
  sensorsim load --driver sqlite ./out/lecturas-sensor_A1S01.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		readings, err := spreadsheet.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := verifyReadings(readings); err != nil {
			return err
		}
		logging.FromContext(ctx).Info("workbook verified", "path", args[0], "rows", len(readings))

		return loadReadings(ctx, cfg, readings)
	},
}
