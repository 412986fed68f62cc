// Package executor applies a planned operation sequence to the live database.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/satishbabariya/schemasync/migrate/planner"
)

// Record is the forensic log entry emitted for every operation: what it was,
// the exact SQL that ran, and how many rows the engine reported affected.
// Log-only operations carry empty SQL and a zero count.
type Record struct {
	Description  string
	SQL          string
	RowsAffected int64
}

// LogFunc receives one Record per operation as execution proceeds. A nil
// LogFunc discards the records.
type LogFunc func(Record)

// DB is the narrow statement surface the executor needs. Both *sql.DB and
// *sql.Conn satisfy it; the engine pins a single connection so that
// session-scoped pragmas cover the whole plan.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Apply executes the plan in order against db and returns the number of
// operations that actually ran SQL. The first statement error halts the
// remaining plan; nothing is retried and nothing already applied is undone.
func Apply(ctx context.Context, db DB, ops []planner.Operation, log LogFunc) (int, error) {
	applied := 0
	for _, op := range ops {
		if op.SQL == "" {
			if log != nil {
				log(Record{Description: op.Description})
			}
			continue
		}

		res, err := db.ExecContext(ctx, op.SQL)
		if err != nil {
			return applied, fmt.Errorf("failed to %s: %w", op.Description, err)
		}
		applied++

		if log != nil {
			rows, _ := res.RowsAffected()
			log(Record{Description: op.Description, SQL: op.SQL, RowsAffected: rows})
		}
	}
	return applied, nil
}

// Violation is one row returned by SQLite's foreign-key consistency check.
type Violation struct {
	Table  string
	RowID  sql.NullInt64
	Parent string
	FKID   int
}

// ForeignKeyError reports that the database violates its declared foreign
// keys after the plan has been applied. The DDL changes are not rolled back;
// the database is left in the migrated, inconsistent state for inspection.
type ForeignKeyError struct {
	Violations []Violation
}

func (e *ForeignKeyError) Error() string {
	var refs []string
	for _, v := range e.Violations {
		refs = append(refs, fmt.Sprintf("%s -> %s", v.Table, v.Parent))
	}
	return fmt.Sprintf("foreign key check failed with %d violation(s): %s",
		len(e.Violations), strings.Join(refs, ", "))
}

// CheckForeignKeys runs PRAGMA foreign_key_check and fails with a
// *ForeignKeyError if any violation rows come back.
func CheckForeignKeys(ctx context.Context, db DB) error {
	rows, err := db.QueryContext(ctx, "PRAGMA foreign_key_check")
	if err != nil {
		return fmt.Errorf("failed to run foreign key check: %w", err)
	}
	defer rows.Close()

	var violations []Violation
	for rows.Next() {
		var v Violation
		if err := rows.Scan(&v.Table, &v.RowID, &v.Parent, &v.FKID); err != nil {
			return fmt.Errorf("failed to scan foreign key violation: %w", err)
		}
		violations = append(violations, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if len(violations) > 0 {
		return &ForeignKeyError{Violations: violations}
	}
	return nil
}
