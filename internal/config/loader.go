package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

var timeType = reflect.TypeOf(time.Time{})

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != timeType {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Struct:
		if field.Type() != timeType {
			return fmt.Errorf("unsupported struct type: %s", field.Type())
		}
		ts, err := ParseStart(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(ts))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// ParseStart parses a SIM_START value. Readings carry no zone, so the
// instant is interpreted as UTC wall-clock time.
func ParseStart(value string) (time.Time, error) {
	ts, err := time.ParseInLocation(StartLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp (want %s): %w", StartLayout, err)
	}
	return ts, nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	validDrivers := map[string]bool{"postgres": true, "sqlite": true}
	if !validDrivers[strings.ToLower(c.Database.Driver)] {
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: postgres, sqlite", c.Database.Driver))
	}
	if strings.ToLower(c.Database.Driver) == "postgres" && c.Database.URL == "" {
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("DB_PORT (%d) must be 1-65535", c.Database.Port))
		}
		if c.Database.Host == "" {
			errs = append(errs, "DB_HOST is required")
		}
		if c.Database.Name == "" {
			errs = append(errs, "DB_NAME is required")
		}
	}
	if c.Database.Table == "" {
		errs = append(errs, "DB_TABLE is required")
	}
	if strings.ToLower(c.Database.Driver) == "sqlite" && c.Database.SQLitePath == "" {
		errs = append(errs, "SQLITE_PATH is required when DB_DRIVER is sqlite")
	}

	// Equipment validation
	if c.Equipment.SensorID == "" {
		errs = append(errs, "SENSOR_ID is required")
	}
	if c.Equipment.ControllerID == "" {
		errs = append(errs, "CONTROLLER_ID is required")
	}
	if c.Equipment.LineID == "" {
		errs = append(errs, "LINE_ID is required")
	}
	if c.Equipment.FactoryID == "" {
		errs = append(errs, "FACTORY_ID is required")
	}

	// Simulation validation
	if c.Simulation.Count < 0 {
		errs = append(errs, fmt.Sprintf("SIM_COUNT (%d) must be non-negative", c.Simulation.Count))
	}
	if c.Simulation.Step <= 0 {
		errs = append(errs, "SIM_STEP must be positive")
	}
	if c.Simulation.Start.IsZero() {
		errs = append(errs, "SIM_START is required")
	}

	// Reference check validation
	validPolicies := map[string]bool{"warn": true, "fail": true}
	if !validPolicies[strings.ToLower(c.Reference.Policy)] {
		errs = append(errs, fmt.Sprintf("REFERENCE_POLICY (%q) must be one of: warn, fail", c.Reference.Policy))
	}
	if c.Reference.Limit <= 0 {
		errs = append(errs, "REFERENCE_LIMIT must be positive")
	}

	// Influx validation
	if c.Influx.Enabled() {
		if c.Influx.Org == "" {
			errs = append(errs, "INFLUX_ORG is required when INFLUX_URL is set")
		}
		if c.Influx.Bucket == "" {
			errs = append(errs, "INFLUX_BUCKET is required when INFLUX_URL is set")
		}
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// Credentials and connection URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {Driver: %q, Target: %q, Password: [MASKED], Schema: %q, Table: %q}, ",
		c.Database.Driver, c.Database.Target(), c.Database.Schema, c.Database.Table))
	b.WriteString(fmt.Sprintf("Equipment: {Sensor: %q, Controller: %q, Line: %q, Factory: %q}, ",
		c.Equipment.SensorID, c.Equipment.ControllerID, c.Equipment.LineID, c.Equipment.FactoryID))
	b.WriteString(fmt.Sprintf("Simulation: {Count: %d, Start: %s, Step: %s, Seed: %d}, ",
		c.Simulation.Count, c.Simulation.Start.Format(StartLayout), c.Simulation.Step, c.Simulation.Seed))
	b.WriteString(fmt.Sprintf("Reference: {Policy: %q, Limit: %d}, ", c.Reference.Policy, c.Reference.Limit))
	b.WriteString(fmt.Sprintf("Influx: {Enabled: %v, Token: [MASKED]}, ", c.Influx.Enabled()))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
