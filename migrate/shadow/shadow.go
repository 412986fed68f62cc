// Package shadow materializes an ephemeral database from target schema text.
//
// The shadow database exists only for the duration of one migration run. It
// is built by executing the desired schema DDL against an empty in-memory
// SQLite database, so that the same catalog reader can snapshot "what the
// schema should look like" and "what the database looks like now".
package shadow

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaError reports that the target schema text failed to execute against
// an empty database: malformed SQL, or a construct SQLite rejects.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("target schema failed to load: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Materialize creates an in-memory database and executes schemaText against
// it verbatim. The caller owns the returned handle and must Close it when the
// migration run ends, whether it succeeds or fails.
func Materialize(schemaText string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open shadow database: %w", err)
	}
	// An in-memory database lives and dies with its connection; every pooled
	// connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaText); err != nil {
		db.Close()
		return nil, &SchemaError{Err: err}
	}

	return db, nil
}
