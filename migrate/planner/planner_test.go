package planner

import (
	"errors"
	"testing"

	"github.com/satishbabariya/schemasync/migrate/catalog"
	"github.com/satishbabariya/schemasync/migrate/diff"
	"github.com/stretchr/testify/require"
)

func TestPlanRebuildSequence(t *testing.T) {
	current := &catalog.Snapshot{
		Tables:  map[string]string{"users": "CREATE TABLE users(id INTEGER, name TEXT)"},
		Columns: map[string][]string{"users": {"id", "name"}},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	target := &catalog.Snapshot{
		Tables:  map[string]string{"users": "CREATE TABLE users(id INTEGER, name TEXT, created_at TEXT DEFAULT '')"},
		Columns: map[string][]string{"users": {"id", "name", "created_at"}},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	cls := diff.Classify(current, target)

	ops, err := Plan(current, target, cls, false)
	require.NoError(t, err)

	kinds := make([]Kind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind
	}
	require.Equal(t, []Kind{KindCreateTable, KindCopyRows, KindDropTable, KindRenameTable}, kinds)

	require.Contains(t, ops[0].SQL, "users"+diff.RebuildSuffix)
	require.NotContains(t, ops[0].SQL, `CREATE TABLE users(`)
	require.Equal(t, `INSERT INTO "users_migration_new"("id", "name") SELECT "id", "name" FROM "users"`, ops[1].SQL)
	require.Equal(t, `DROP TABLE "users"`, ops[2].SQL)
	require.Equal(t, `ALTER TABLE "users_migration_new" RENAME TO "users"`, ops[3].SQL)
}

func TestPlanRejectsColumnDeletions(t *testing.T) {
	current := &catalog.Snapshot{
		Tables:  map[string]string{"users": "CREATE TABLE users(id INTEGER, legacy TEXT)"},
		Columns: map[string][]string{"users": {"id", "legacy"}},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	target := &catalog.Snapshot{
		Tables:  map[string]string{"users": "CREATE TABLE users(id INTEGER)"},
		Columns: map[string][]string{"users": {"id"}},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	cls := diff.Classify(current, target)

	_, err := Plan(current, target, cls, false)
	var destructive *diff.DestructiveError
	require.True(t, errors.As(err, &destructive))
	require.Equal(t, []string{"legacy"}, destructive.Columns["users"])

	ops, err := Plan(current, target, cls, true)
	require.NoError(t, err)
	require.NotEmpty(t, ops)
}

func TestPlanIndexDropThenRecreate(t *testing.T) {
	current := &catalog.Snapshot{
		Tables:  map[string]string{},
		Columns: map[string][]string{},
		Indices: map[string]string{"idx": "CREATE INDEX idx ON t(a)"},
		Pragmas: map[string]string{},
	}
	target := &catalog.Snapshot{
		Tables:  map[string]string{},
		Columns: map[string][]string{},
		Indices: map[string]string{"idx": "CREATE INDEX idx ON t(a DESC)"},
		Pragmas: map[string]string{},
	}
	cls := diff.Classify(current, target)

	ops, err := Plan(current, target, cls, false)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	require.Equal(t, KindDropIndex, ops[0].Kind)
	require.Equal(t, KindCreateIndex, ops[1].Kind)
	require.Equal(t, "CREATE INDEX idx ON t(a DESC)", ops[1].SQL)
}

func TestPlanPragmaReconciliation(t *testing.T) {
	current := &catalog.Snapshot{
		Tables:  map[string]string{},
		Columns: map[string][]string{},
		Indices: map[string]string{},
		Pragmas: map[string]string{"user_version": "0", "foreign_keys": "0"},
	}
	target := &catalog.Snapshot{
		Tables:  map[string]string{},
		Columns: map[string][]string{},
		Indices: map[string]string{},
		Pragmas: map[string]string{"user_version": "3", "foreign_keys": "0"},
	}
	cls := diff.Classify(current, target)

	ops, err := Plan(current, target, cls, false)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, KindSetPragma, ops[0].Kind)
	require.Equal(t, "PRAGMA user_version = 3", ops[0].SQL)
}

func TestPlanDropsRebuildLeftovers(t *testing.T) {
	current := &catalog.Snapshot{
		Tables: map[string]string{
			"users" + diff.RebuildSuffix: "CREATE TABLE users_migration_new(id)",
		},
		Columns: map[string][]string{"users" + diff.RebuildSuffix: {"id"}},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	target := &catalog.Snapshot{
		Tables:  map[string]string{},
		Columns: map[string][]string{},
		Indices: map[string]string{},
		Pragmas: map[string]string{},
	}
	cls := diff.Classify(current, target)

	ops, err := Plan(current, target, cls, false)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, KindDropLeftover, ops[0].Kind)
	require.Equal(t, `DROP TABLE IF EXISTS "users_migration_new"`, ops[0].SQL)
}

func TestRenameInStatementWholeWordOnly(t *testing.T) {
	stmt := "CREATE TABLE log(id INTEGER, loglevel TEXT, log_ref INTEGER REFERENCES log(id))"
	got := renameInStatement(stmt, "log", "log_migration_new")
	require.Contains(t, got, "CREATE TABLE log_migration_new(")
	require.Contains(t, got, "loglevel TEXT")
	require.Contains(t, got, "REFERENCES log_migration_new(id)")
}
