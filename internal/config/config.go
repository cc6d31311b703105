// Package config provides centralized configuration management for the simulator.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
)

// StartLayout is the accepted format for SIM_START.
const StartLayout = "2006-01-02T15:04:05"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database   DatabaseConfig
	Equipment  EquipmentConfig
	Simulation SimulationConfig
	Export     ExportConfig
	Reference  ReferenceConfig
	Influx     InfluxConfig
	Logging    LoggingConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the backend: postgres or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is a full PostgreSQL connection string. When set it wins over the
	// individual host/port/name/user/password settings.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	Host     string `env:"DB_HOST" default:"localhost"`
	Port     int    `env:"DB_PORT" default:"5432"`
	Name     string `env:"DB_NAME" default:"monitoreo_produccion"`
	User     string `env:"DB_USER" default:"postgres"`
	Password string `env:"DB_PASSWORD" default:"postgres"`

	// Schema holds the readings and reference tables (default: monitoreo_produccion)
	Schema string `env:"DB_SCHEMA" default:"monitoreo_produccion"`

	// Table is the destination readings table (default: lecturas)
	Table string `env:"DB_TABLE" default:"lecturas"`

	// SQLitePath is the database file used when Driver is sqlite (default: sensorsim.db)
	SQLitePath string `env:"SQLITE_PATH" default:"sensorsim.db"`

	// SQLiteSeedReferences inserts the configured equipment hierarchy into the
	// local reference tables when the sqlite database is opened (default: true)
	SQLiteSeedReferences bool `env:"SQLITE_SEED_REFERENCES" default:"true"`
}

// EquipmentConfig names the simulated device and its place in the plant.
type EquipmentConfig struct {
	SensorID     string `env:"SENSOR_ID" default:"A1S01"`
	ControllerID string `env:"CONTROLLER_ID" default:"A1M01"`
	LineID       string `env:"LINE_ID" default:"A1"`
	FactoryID    string `env:"FACTORY_ID" default:"A"`
}

// SimulationConfig controls the generated series.
type SimulationConfig struct {
	// Count is the number of readings to generate (default: 1000)
	Count int `env:"SIM_COUNT" default:"1000"`

	// Start is the instant of the first reading (default: 2025-01-01T08:00:00)
	Start time.Time `env:"SIM_START" default:"2025-01-01T08:00:00"`

	// Step is the interval between readings (default: 10s)
	Step time.Duration `env:"SIM_STEP" default:"10s"`

	// Seed feeds the random source. 0 picks a clock-derived seed (default: 0)
	Seed int64 `env:"SIM_SEED" default:"0"`

	// SourceFormat tags every reading with its origin (default: simulacion_go)
	SourceFormat string `env:"SIM_SOURCE_FORMAT" default:"simulacion_go"`
}

// ExportConfig holds spreadsheet output settings.
type ExportConfig struct {
	// Dir is the directory the workbook is written to (default: .)
	Dir string `env:"EXPORT_DIR" default:"."`
}

// ReferenceConfig controls the advisory reference-table check.
type ReferenceConfig struct {
	// Policy is warn (report and continue) or fail (stop before insert) (default: warn)
	Policy string `env:"REFERENCE_POLICY" default:"warn"`

	// Limit is how many identifiers to read from each reference table (default: 10)
	Limit int `env:"REFERENCE_LIMIT" default:"10"`
}

// InfluxConfig holds the optional InfluxDB sink settings.
// The sink is enabled when URL is set.
type InfluxConfig struct {
	URL         string `env:"INFLUX_URL"`
	Token       string `env:"INFLUX_TOKEN"`
	Org         string `env:"INFLUX_ORG"`
	Bucket      string `env:"INFLUX_BUCKET"`
	Measurement string `env:"INFLUX_MEASUREMENT" default:"lecturas"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ConnString returns the PostgreSQL connection string, composing it from the
// individual settings when URL is empty.
func (c *DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	return u.String()
}

// Enabled reports whether the InfluxDB sink is configured.
func (c *InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// Equipment converts the configured identifiers to the domain type.
func (c *EquipmentConfig) Equipment() core.Equipment {
	return core.Equipment{
		SensorID:     c.SensorID,
		ControllerID: c.ControllerID,
		LineID:       c.LineID,
		FactoryID:    c.FactoryID,
	}
}

// Target returns a human-readable description of the destination, without credentials.
func (c *DatabaseConfig) Target() string {
	if c.Driver == "sqlite" {
		return fmt.Sprintf("sqlite:%s", c.SQLitePath)
	}
	if c.URL != "" {
		if u, err := url.Parse(c.URL); err == nil {
			return fmt.Sprintf("postgres://%s%s", u.Host, u.Path)
		}
		return "postgres"
	}
	return fmt.Sprintf("postgres://%s/%s", net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name)
}
