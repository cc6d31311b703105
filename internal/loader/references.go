package loader

import (
	"context"
	"fmt"
	"slices"

	"github.com/JonMunkholm/sensorsim/internal/core"
	"github.com/JonMunkholm/sensorsim/internal/logging"
)

// NoneAvailable is reported as the alternative when a reference table is empty.
const NoneAvailable = "NONE"

// Mismatch is a configured identifier that was not found among the
// identifiers read from its reference table.
type Mismatch struct {
	Reference  core.Reference
	Configured string
	Available  []string
}

// FirstAvailable returns the first identifier read from the reference table,
// or NoneAvailable. It is only ever reported, never used in place of Configured.
func (m Mismatch) FirstAvailable() string {
	if len(m.Available) == 0 {
		return NoneAvailable
	}
	return m.Available[0]
}

// CheckReferences reads up to limit identifiers from every reference table and
// returns the identifiers in equipment that are not among them. All lookups
// run before any comparison; the first failing lookup aborts the check.
//
// Only the first limit identifiers are compared, so an identifier that exists
// beyond that window is still reported.
func CheckReferences(ctx context.Context, b Backend, equipment []core.Equipment, limit int) ([]Mismatch, error) {
	available := make(map[string][]string, len(core.References))

	for _, ref := range core.References {
		ids, err := b.ReferenceIDs(ctx, ref.Table, ref.Column, limit)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", ref.Table, err)
		}
		available[ref.Name] = ids
		logging.FromContext(ctx).Debug("reference identifiers available",
			"reference", ref.Name, "ids", ids)
	}

	var mismatches []Mismatch
	for _, eq := range equipment {
		for _, ref := range core.References {
			id := eq.ID(ref)
			if slices.Contains(available[ref.Name], id) {
				continue
			}
			mismatches = append(mismatches, Mismatch{
				Reference:  ref,
				Configured: id,
				Available:  available[ref.Name],
			})
		}
	}

	return mismatches, nil
}
