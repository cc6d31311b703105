// Package loader bulk-loads simulated readings into a relational store.
//
// A load runs in three steps:
//
//  1. Open exactly one connection to the backend. Failure is fatal.
//  2. Read a few identifiers from each reference table and report configured
//     identifiers that are missing. This step is advisory: identifiers are
//     never substituted, and a failing lookup is logged and skipped.
//  3. Insert every reading in one transaction and commit once. Any failure,
//     such as a foreign key violation, aborts the whole batch.
//
// The connection is released on every exit path.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/JonMunkholm/sensorsim/internal/logging"
)

// DefaultReferenceLimit is how many identifiers are read per reference table.
const DefaultReferenceLimit = 10

// ErrReferenceMismatch is returned under PolicyFail when a configured
// identifier is not among the reference table's identifiers.
var ErrReferenceMismatch = errors.New("reference mismatch")

// Backend is a connected relational store.
type Backend interface {
	// ReferenceIDs returns up to limit identifiers from table.column.
	ReferenceIDs(ctx context.Context, table, column string, limit int) ([]string, error)

	// InsertBatch inserts all readings atomically and returns the row count.
	InsertBatch(ctx context.Context, readings []core.Reading) (int64, error)

	// Close releases the connection.
	Close() error
}

// OpenFunc connects to a Backend.
type OpenFunc func(ctx context.Context) (Backend, error)

// Policy decides what a reference mismatch does to the load.
type Policy string

const (
	// PolicyWarn reports mismatches and inserts with the configured identifiers.
	PolicyWarn Policy = "warn"
	// PolicyFail reports mismatches and stops before inserting.
	PolicyFail Policy = "fail"
)

// ParsePolicy converts a configuration string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyWarn:
		return PolicyWarn, nil
	case PolicyFail:
		return PolicyFail, nil
	default:
		return "", fmt.Errorf("unknown reference policy %q", s)
	}
}

// Options configures a Loader.
type Options struct {
	Policy         Policy
	ReferenceLimit int
	Target         string // destination label for logs, e.g. "monitoreo_produccion.lecturas"
}

// Result summarizes a load.
type Result struct {
	Inserted          int64
	Mismatches        []Mismatch
	ReferencesChecked bool // false when the reference lookup failed and was skipped
	Duration          time.Duration
}

// Loader validates and inserts readings through a Backend.
type Loader struct {
	open OpenFunc
	opts Options
}

// New returns a Loader that connects with open.
func New(open OpenFunc, opts Options) *Loader {
	if opts.Policy == "" {
		opts.Policy = PolicyWarn
	}
	if opts.ReferenceLimit <= 0 {
		opts.ReferenceLimit = DefaultReferenceLimit
	}
	return &Loader{open: open, opts: opts}
}

// Load connects, checks references, and inserts readings in one batch.
func (l *Loader) Load(ctx context.Context, readings []core.Reading) (Result, error) {
	start := time.Now()
	log := logging.WithFields(ctx, "target", l.opts.Target)

	var result Result

	if len(readings) == 0 {
		log.Info("no readings to insert")
		return result, nil
	}

	backend, err := l.open(ctx)
	if err != nil {
		return result, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("failed to close database connection", "error", err)
		}
	}()

	mismatches, err := CheckReferences(ctx, backend, distinctEquipment(readings), l.opts.ReferenceLimit)
	if err != nil {
		log.Warn("reference lookup failed, continuing with insert", "error", err)
	} else {
		result.ReferencesChecked = true
		result.Mismatches = mismatches
		for _, m := range mismatches {
			log.Warn("identifier not found in reference table",
				"reference", m.Reference.Name,
				"table", m.Reference.Table,
				"configured", m.Configured,
				"first_available", m.FirstAvailable(),
			)
		}
	}

	if l.opts.Policy == PolicyFail && len(result.Mismatches) > 0 {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("%w: %s", ErrReferenceMismatch, describe(result.Mismatches))
	}

	n, err := backend.InsertBatch(ctx, readings)
	if err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("insert readings: %w", err)
	}

	result.Inserted = n
	result.Duration = time.Since(start)
	log.Info("readings inserted", "count", n, "duration", result.Duration)

	return result, nil
}

// distinctEquipment returns each distinct equipment tuple in first-seen order.
func distinctEquipment(readings []core.Reading) []core.Equipment {
	seen := make(map[core.Equipment]bool)
	var out []core.Equipment
	for _, r := range readings {
		eq := r.Equipment()
		if !seen[eq] {
			seen[eq] = true
			out = append(out, eq)
		}
	}
	return out
}

func describe(mismatches []Mismatch) string {
	parts := make([]string, len(mismatches))
	for i, m := range mismatches {
		parts[i] = fmt.Sprintf("%s %q not in %s", m.Reference.Name, m.Configured, m.Reference.Table)
	}
	return strings.Join(parts, "; ")
}
