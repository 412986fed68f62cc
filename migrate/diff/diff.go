// Package diff classifies the differences between two schema snapshots.
package diff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/schemasync/migrate/canonical"
	"github.com/satishbabariya/schemasync/migrate/catalog"
)

// RebuildSuffix is the reserved suffix for tables staged during a rebuild.
// A table carrying it is a leftover from an interrupted run, never a table
// the user asked to delete.
const RebuildSuffix = "_migration_new"

// Classification is the outcome of comparing a live snapshot against the
// target snapshot. All slices are sorted so downstream plans are
// deterministic.
type Classification struct {
	NewTables      []string
	RemovedTables  []string
	ModifiedTables []string

	NewIndices     []string
	RemovedIndices []string
	ChangedIndices []string
}

// Empty reports whether nothing at table or index level differs.
func (c *Classification) Empty() bool {
	return len(c.NewTables) == 0 && len(c.RemovedTables) == 0 && len(c.ModifiedTables) == 0 &&
		len(c.NewIndices) == 0 && len(c.RemovedIndices) == 0 && len(c.ChangedIndices) == 0
}

// DestructiveError reports that the plan would drop tables while deletions
// are not authorized. It is raised before any SQL executes.
type DestructiveError struct {
	Tables  []string
	Columns map[string][]string
}

func (e *DestructiveError) Error() string {
	if len(e.Tables) > 0 {
		return fmt.Sprintf("refusing to drop tables without --allow-deletions: %s",
			strings.Join(e.Tables, ", "))
	}
	var parts []string
	for table, cols := range e.Columns {
		parts = append(parts, fmt.Sprintf("%s(%s)", table, strings.Join(cols, ", ")))
	}
	sort.Strings(parts)
	return fmt.Sprintf("refusing to drop columns without --allow-deletions: %s",
		strings.Join(parts, "; "))
}

// Classify compares the current snapshot against the target snapshot.
//
// A table or index whose canonical defining SQL is identical on both sides is
// unchanged and appears in no set. Current tables named with RebuildSuffix are
// excluded from RemovedTables; they are cleaned up separately.
func Classify(current, target *catalog.Snapshot) *Classification {
	c := &Classification{}

	for name := range target.Tables {
		if _, ok := current.Tables[name]; !ok {
			c.NewTables = append(c.NewTables, name)
		}
	}
	for name, currentSQL := range current.Tables {
		targetSQL, ok := target.Tables[name]
		switch {
		case !ok:
			if !strings.HasSuffix(name, RebuildSuffix) {
				c.RemovedTables = append(c.RemovedTables, name)
			}
		case !canonical.Equal(currentSQL, targetSQL):
			c.ModifiedTables = append(c.ModifiedTables, name)
		}
	}

	for name := range target.Indices {
		if _, ok := current.Indices[name]; !ok {
			c.NewIndices = append(c.NewIndices, name)
		}
	}
	for name, currentSQL := range current.Indices {
		targetSQL, ok := target.Indices[name]
		switch {
		case !ok:
			c.RemovedIndices = append(c.RemovedIndices, name)
		case !canonical.Equal(currentSQL, targetSQL):
			c.ChangedIndices = append(c.ChangedIndices, name)
		}
	}

	sort.Strings(c.NewTables)
	sort.Strings(c.RemovedTables)
	sort.Strings(c.ModifiedTables)
	sort.Strings(c.NewIndices)
	sort.Strings(c.RemovedIndices)
	sort.Strings(c.ChangedIndices)

	return c
}

// CheckDestructive enforces the table-level safety gate: with deletions
// unauthorized, any removed table aborts the run before a single operation
// is generated.
func (c *Classification) CheckDestructive(allowDeletions bool) error {
	if allowDeletions || len(c.RemovedTables) == 0 {
		return nil
	}
	return &DestructiveError{Tables: c.RemovedTables}
}
