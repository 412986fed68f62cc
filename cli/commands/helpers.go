package commands

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/satishbabariya/schemasync/cli/internal/ui"
	"github.com/satishbabariya/schemasync/migrate/executor"
)

// openDatabase opens the live database pinned to a single connection, so
// session-scoped pragmas set by the engine cover the whole run.
func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return db, nil
}

// readSchema loads the target schema text from disk.
func readSchema(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}
	return string(data), nil
}

// logRecord is the engine's forensic callback, routed to the terminal.
func logRecord(r executor.Record) {
	ui.PrintOperation(r.Description, r.SQL, r.RowsAffected)
}
