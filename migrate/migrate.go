// Package migrate reconciles a live SQLite database with a target schema
// expressed as plain DDL text.
//
// One call runs the whole pipeline: materialize the target schema in an
// ephemeral database, snapshot both catalogs, classify the differences,
// generate the operation plan, and apply it. Existing row data survives
// wherever the table shape permits a straight column copy.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/schemasync/migrate/catalog"
	"github.com/satishbabariya/schemasync/migrate/diff"
	"github.com/satishbabariya/schemasync/migrate/executor"
	"github.com/satishbabariya/schemasync/migrate/planner"
	"github.com/satishbabariya/schemasync/migrate/shadow"
)

// DefaultPragmas is the set of pragmas reconciled when Options.Pragmas is nil.
var DefaultPragmas = []string{"user_version", "foreign_keys"}

// Options controls a migration run.
type Options struct {
	// AllowDeletions authorizes dropping tables and columns. Without it any
	// destructive change aborts the run before a single statement executes.
	AllowDeletions bool
	// Pragmas lists the pragma names to reconcile. Nil means DefaultPragmas.
	Pragmas []string
	// Log receives one record per operation as it executes.
	Log executor.LogFunc
}

func (o Options) pragmas() []string {
	if o.Pragmas == nil {
		return DefaultPragmas
	}
	return o.Pragmas
}

// Migrate applies the minimal set of schema changes that make db match
// schemaText. It reports whether anything was changed: a database already
// matching the target yields false with zero statements executed.
//
// There is no plan-wide transaction. A statement failure, or a foreign-key
// check failure after the plan ran, leaves the database in whatever state
// execution reached; the leftover-cleanup pass of the next run is what makes
// re-running safe.
func Migrate(ctx context.Context, db *sql.DB, schemaText string, opts Options) (bool, error) {
	ops, target, err := plan(ctx, db, schemaText, opts)
	if err != nil {
		return false, err
	}
	if len(ops) == 0 {
		return false, nil
	}

	// Pin one connection so the session-scoped pragma below covers every
	// statement of the plan.
	conn, err := db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	// Rebuilds transiently leave referencing rows pointing at a table that
	// does not yet exist under its final name.
	if _, err := conn.ExecContext(ctx, "PRAGMA defer_foreign_keys = ON"); err != nil {
		return false, fmt.Errorf("failed to defer foreign key enforcement: %w", err)
	}

	applied, err := executor.Apply(ctx, conn, ops, opts.Log)
	if err != nil {
		return applied > 0, err
	}

	if target.Pragmas["foreign_keys"] == "1" {
		if err := executor.CheckForeignKeys(ctx, conn); err != nil {
			return applied > 0, err
		}
	}

	return applied > 0, nil
}

// Plan computes the operation sequence Migrate would run, without executing
// anything against the live database.
func Plan(ctx context.Context, db *sql.DB, schemaText string, opts Options) ([]planner.Operation, error) {
	ops, _, err := plan(ctx, db, schemaText, opts)
	return ops, err
}

func plan(ctx context.Context, db *sql.DB, schemaText string, opts Options) ([]planner.Operation, *catalog.Snapshot, error) {
	shadowDB, err := shadow.Materialize(schemaText)
	if err != nil {
		return nil, nil, err
	}
	defer shadowDB.Close()

	pragmas := opts.pragmas()

	target, err := catalog.Read(ctx, shadowDB, pragmas)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot target schema: %w", err)
	}
	current, err := catalog.Read(ctx, db, pragmas)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot live schema: %w", err)
	}

	cls := diff.Classify(current, target)
	if err := cls.CheckDestructive(opts.AllowDeletions); err != nil {
		return nil, nil, err
	}

	ops, err := planner.Plan(current, target, cls, opts.AllowDeletions)
	if err != nil {
		return nil, nil, err
	}
	return ops, target, nil
}
