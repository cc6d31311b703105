package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/config"
	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/JonMunkholm/sensorsim/internal/database"
	"github.com/JonMunkholm/sensorsim/internal/influx"
	"github.com/JonMunkholm/sensorsim/internal/loader"
	"github.com/JonMunkholm/sensorsim/internal/logging"
	"github.com/JonMunkholm/sensorsim/internal/spreadsheet"
)

// generateReadings builds the configured series. A zero seed is replaced by a
// clock-derived one, which is logged so the run can be reproduced.
func generateReadings(ctx context.Context, c *config.Config) []core.Reading {
	seed := uint64(c.Simulation.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	gen := core.NewSeededGenerator(seed, core.GeneratorOptions{
		Step:         c.Simulation.Step,
		SourceFormat: c.Simulation.SourceFormat,
	})
	eq := c.Equipment.Equipment()
	readings := gen.Generate(c.Simulation.Count, eq, c.Simulation.Start)

	logging.FromContext(ctx).Info("readings generated",
		"count", len(readings),
		"sensor", eq.SensorID,
		"start", c.Simulation.Start.Format(config.StartLayout),
		"seed", seed,
	)
	return readings
}

func exportReadings(ctx context.Context, c *config.Config, readings []core.Reading) (string, error) {
	path, err := spreadsheet.WriteFile(c.Export.Dir, c.Equipment.SensorID, readings)
	if err != nil {
		return "", fmt.Errorf("export readings: %w", err)
	}
	logging.FromContext(ctx).Info("readings exported", "path", path, "rows", len(readings))
	return path, nil
}

// opener returns a loader.OpenFunc for the configured backend. For sqlite the
// equipment hierarchy is seeded on open when enabled.
func opener(c *config.Config, equipment []core.Equipment) loader.OpenFunc {
	if strings.EqualFold(c.Database.Driver, "sqlite") {
		return func(ctx context.Context) (loader.Backend, error) {
			s, err := database.OpenSQLite(c.Database.SQLitePath, database.SQLiteOptions{Table: c.Database.Table})
			if err != nil {
				return nil, err
			}
			if c.Database.SQLiteSeedReferences {
				for _, eq := range equipment {
					if err := s.SeedReferences(ctx, eq); err != nil {
						s.Close()
						return nil, err
					}
				}
			}
			return s, nil
		}
	}

	return func(ctx context.Context) (loader.Backend, error) {
		p, err := database.Connect(ctx, c.Database.ConnString(), c.Database.Schema, c.Database.Table)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func loadReadings(ctx context.Context, c *config.Config, readings []core.Reading) error {
	policy, err := loader.ParsePolicy(c.Reference.Policy)
	if err != nil {
		return err
	}

	equipment := []core.Equipment{c.Equipment.Equipment()}
	if len(readings) > 0 {
		equipment = []core.Equipment{readings[0].Equipment()}
	}

	l := loader.New(opener(c, equipment), loader.Options{
		Policy:         policy,
		ReferenceLimit: c.Reference.Limit,
		Target:         c.Database.Target(),
	})

	res, err := l.Load(ctx, readings)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			logging.FromContext(ctx).Error("batch rejected, nothing was committed",
				"reason", "foreign key violation", "unknown_identifiers", len(res.Mismatches))
		}
		return err
	}

	logging.FromContext(ctx).Info("load complete",
		"inserted", res.Inserted,
		"references_checked", res.ReferencesChecked,
		"unknown_identifiers", len(res.Mismatches),
		"duration", res.Duration,
	)
	return nil
}

// mirrorToInflux writes readings to InfluxDB when configured. Failures are
// logged; the relational load is the system of record.
func mirrorToInflux(ctx context.Context, c *config.Config, readings []core.Reading) {
	if !c.Influx.Enabled() {
		return
	}
	log := logging.WithFields(ctx, "bucket", c.Influx.Bucket)

	w := influx.NewWriter(c.Influx.URL, c.Influx.Token, c.Influx.Org, c.Influx.Bucket, c.Influx.Measurement)
	defer w.Close()

	if err := w.Write(ctx, readings); err != nil {
		log.Warn("influx write failed", "error", err)
		return
	}
	log.Info("readings written to influx", "count", len(readings))
}

// verifyReadings checks every integrity hash and fails on the first mismatch.
func verifyReadings(readings []core.Reading) error {
	for i, r := range readings {
		if !r.VerifyHash() {
			// Row 1 of the sheet is the header.
			return fmt.Errorf("row %d (%s %s): %w", i+2, r.Date(), r.Clock(), core.ErrIntegrityMismatch)
		}
	}
	return nil
}
