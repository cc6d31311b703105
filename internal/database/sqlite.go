package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// sqliteBatchRows keeps each INSERT under SQLite's bound-parameter limit
// (18 columns per row).
const sqliteBatchRows = 1800

// SQLiteOptions configures OpenSQLite.
type SQLiteOptions struct {
	Table string // readings table; defaults to "lecturas"
}

// SQLite loads readings into a local SQLite file laid out like the
// production schema, with foreign keys enforced.
type SQLite struct {
	db    *gorm.DB
	table string
}

// OpenSQLite opens or creates the database at path and bootstraps the
// reference and readings tables. Use ":memory:" for a throwaway database.
func OpenSQLite(path string, opts SQLiteOptions) (*SQLite, error) {
	if opts.Table == "" {
		opts.Table = "lecturas"
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One connection, so the pragma and an in-memory database apply to every query.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &SQLite{db: db, table: opts.Table}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLite) migrate() error {
	for _, stmt := range schemaStatements(s.table) {
		if err := s.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func schemaStatements(table string) []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS fabrica (
			id_fabrica TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS linea (
			id_linea   TEXT PRIMARY KEY,
			id_fabrica TEXT NOT NULL REFERENCES fabrica(id_fabrica)
		)`,
		`CREATE TABLE IF NOT EXISTS microcontrolador (
			id_micro TEXT PRIMARY KEY,
			id_linea TEXT NOT NULL REFERENCES linea(id_linea)
		)`,
		`CREATE TABLE IF NOT EXISTS sensor (
			id_sensor TEXT PRIMARY KEY,
			id_micro  TEXT NOT NULL REFERENCES microcontrolador(id_micro)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
			id_lectura         INTEGER PRIMARY KEY AUTOINCREMENT,
			fecha              TEXT NOT NULL,
			hora               TEXT NOT NULL,
			id_sensor          TEXT NOT NULL REFERENCES sensor(id_sensor),
			id_micro           TEXT NOT NULL REFERENCES microcontrolador(id_micro),
			id_linea           TEXT NOT NULL REFERENCES linea(id_linea),
			id_fabrica         TEXT NOT NULL REFERENCES fabrica(id_fabrica),
			ppm_benceno        REAL NOT NULL,
			id_clasificacion   INTEGER NOT NULL,
			geo_latitud        REAL,
			geo_longitud       REAL,
			geo_altitud        REAL,
			temperatura        REAL,
			humedad            REAL,
			estado_transmision TEXT,
			timestamp_envio    DATETIME,
			observaciones      TEXT,
			hash_integridad    TEXT,
			origen_formato     TEXT
		)`, table),
	}
}

// SeedReferences inserts eq's factory, line, controller and sensor rows,
// leaving rows that already exist untouched.
func (s *SQLite) SeedReferences(ctx context.Context, eq core.Equipment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := []any{
			&Factory{ID: eq.FactoryID},
			&Line{ID: eq.LineID, FactoryID: eq.FactoryID},
			&Controller{ID: eq.ControllerID, LineID: eq.LineID},
			&Sensor{ID: eq.SensorID, ControllerID: eq.ControllerID},
		}
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
				return fmt.Errorf("seed %T: %w", row, err)
			}
		}
		return nil
	})
}

// ReferenceIDs returns up to limit identifiers from table.column.
func (s *SQLite) ReferenceIDs(ctx context.Context, table, column string, limit int) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Table(table).Limit(limit).Pluck(column, &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertBatch inserts all readings in one transaction.
func (s *SQLite) InsertBatch(ctx context.Context, readings []core.Reading) (int64, error) {
	rows := make([]ReadingRow, len(readings))
	for i, r := range readings {
		rows[i] = newReadingRow(r)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Table(s.table).CreateInBatches(&rows, sqliteBatchRows).Error
	})
	if err != nil {
		return 0, err
	}

	return int64(len(rows)), nil
}

// Count returns the number of stored readings.
func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(s.table).Count(&n).Error
	return n, err
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
