package executor

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/satishbabariya/schemasync/migrate/planner"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyCountsAndRecords(t *testing.T) {
	db := openDB(t)
	ops := []planner.Operation{
		{Kind: planner.KindCreateTable, Description: "create table t", SQL: "CREATE TABLE t(a)"},
		{Kind: planner.KindNote, Description: "nothing to copy"},
		{Kind: planner.KindCreateIndex, Description: "create index idx", SQL: "CREATE INDEX idx ON t(a)"},
	}

	var records []Record
	applied, err := Apply(context.Background(), db, ops, func(r Record) { records = append(records, r) })
	require.NoError(t, err)
	require.Equal(t, 2, applied)
	require.Len(t, records, 3)
	require.Equal(t, "create table t", records[0].Description)
	require.Equal(t, "CREATE TABLE t(a)", records[0].SQL)
	require.Empty(t, records[1].SQL)
}

func TestApplyHaltsOnStatementError(t *testing.T) {
	db := openDB(t)
	ops := []planner.Operation{
		{Description: "create table t", SQL: "CREATE TABLE t(a)"},
		{Description: "break", SQL: "CREATE TABLE t(a)"}, // already exists
		{Description: "never runs", SQL: "CREATE TABLE u(a)"},
	}

	applied, err := Apply(context.Background(), db, ops, nil)
	require.Error(t, err)
	require.Equal(t, 1, applied)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE name='u'`).Scan(&n))
	require.Equal(t, 0, n)
}

func TestCheckForeignKeys(t *testing.T) {
	db := openDB(t)
	_, err := db.Exec(`
		CREATE TABLE parent(id INTEGER PRIMARY KEY);
		CREATE TABLE child(id INTEGER PRIMARY KEY, parent_id INTEGER REFERENCES parent(id));
		INSERT INTO child(id, parent_id) VALUES (1, 42);
	`)
	require.NoError(t, err)

	err = CheckForeignKeys(context.Background(), db)
	var fkErr *ForeignKeyError
	require.True(t, errors.As(err, &fkErr))
	require.Len(t, fkErr.Violations, 1)
	require.Equal(t, "child", fkErr.Violations[0].Table)
	require.Equal(t, "parent", fkErr.Violations[0].Parent)

	_, err = db.Exec(`INSERT INTO parent(id) VALUES (42)`)
	require.NoError(t, err)
	require.NoError(t, CheckForeignKeys(context.Background(), db))
}
