// Package catalog reads a structured snapshot of a SQLite database's schema.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Snapshot captures everything the differ needs to know about one database:
// table and index defining SQL from sqlite_master, per-table column names,
// and the values of the tracked pragmas. A snapshot is read once and never
// mutated afterwards.
type Snapshot struct {
	// Tables maps table name to its CREATE TABLE statement. The internal
	// sqlite_sequence bookkeeping table is excluded.
	Tables map[string]string
	// Indices maps index name to its CREATE INDEX statement. Auto-created
	// indices (UNIQUE/PRIMARY KEY backing indices, NULL sql) are excluded.
	Indices map[string]string
	// Columns maps table name to its column names in declaration order.
	Columns map[string][]string
	// Pragmas maps pragma name to its current value, rendered as text.
	Pragmas map[string]string
}

// HasTable reports whether the snapshot contains the named table.
func (s *Snapshot) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// Read snapshots the schema of db. The same reader serves both the live
// database and the ephemeral database built from the target schema text,
// which is what lets the target be expressed as plain DDL.
func Read(ctx context.Context, db *sql.DB, pragmas []string) (*Snapshot, error) {
	snap := &Snapshot{
		Tables:  make(map[string]string),
		Indices: make(map[string]string),
		Columns: make(map[string][]string),
		Pragmas: make(map[string]string),
	}

	if err := readObjects(ctx, db, "table", snap.Tables); err != nil {
		return nil, fmt.Errorf("failed to read table catalog: %w", err)
	}
	delete(snap.Tables, "sqlite_sequence")

	if err := readObjects(ctx, db, "index", snap.Indices); err != nil {
		return nil, fmt.Errorf("failed to read index catalog: %w", err)
	}

	for name := range snap.Tables {
		cols, err := readColumns(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns for %s: %w", name, err)
		}
		snap.Columns[name] = cols
	}

	for _, name := range pragmas {
		value, err := readPragma(ctx, db, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read pragma %s: %w", name, err)
		}
		snap.Pragmas[name] = value
	}

	return snap, nil
}

// readObjects fills out with name -> defining SQL for every catalog object of
// the given type. Objects without stored SQL (SQLite's automatic indices)
// are skipped.
func readObjects(ctx context.Context, db *sql.DB, objectType string, out map[string]string) error {
	rows, err := db.QueryContext(ctx,
		`SELECT name, sql FROM sqlite_master WHERE type = ? ORDER BY name`, objectType)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var definingSQL sql.NullString
		if err := rows.Scan(&name, &definingSQL); err != nil {
			return err
		}
		if !definingSQL.Valid {
			continue
		}
		out[name] = definingSQL.String
	}
	return rows.Err()
}

// readColumns returns the column names of a table in declaration order.
func readColumns(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info("%s")`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func readPragma(ctx context.Context, db *sql.DB, name string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, fmt.Sprintf("PRAGMA %s", name)).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}
