// Package planner turns a schema classification into an ordered operation
// sequence.
//
// The ordering is a correctness requirement: new tables first, then drops,
// then per-table rebuilds, then index reconciliation, pragma reconciliation,
// and finally cleanup of rebuild leftovers from interrupted earlier runs.
package planner

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/satishbabariya/schemasync/migrate/catalog"
	"github.com/satishbabariya/schemasync/migrate/diff"
)

// Kind identifies what an operation does.
type Kind string

const (
	KindCreateTable  Kind = "CreateTable"
	KindDropTable    Kind = "DropTable"
	KindCopyRows     Kind = "CopyRows"
	KindRenameTable  Kind = "RenameTable"
	KindDropIndex    Kind = "DropIndex"
	KindCreateIndex  Kind = "CreateIndex"
	KindSetPragma    Kind = "SetPragma"
	KindDropLeftover Kind = "DropLeftover"
	KindNote         Kind = "Note"
)

// Operation is one step of a migration plan. SQL is executed verbatim; an
// operation with empty SQL is a log-only placeholder.
type Operation struct {
	Kind        Kind
	Description string
	SQL         string
}

// Plan generates the full operation sequence that transforms current into
// target. It never touches a database; execution is the executor's job.
//
// Column deletions are the one destructive change only visible here (table
// drops are caught during classification): a rebuild that would lose columns
// fails with *diff.DestructiveError unless deletions are authorized, and in
// that case no operation of the plan is executed at all.
func Plan(current, target *catalog.Snapshot, cls *diff.Classification, allowDeletions bool) ([]Operation, error) {
	var ops []Operation

	for _, name := range cls.NewTables {
		ops = append(ops, Operation{
			Kind:        KindCreateTable,
			Description: fmt.Sprintf("create table %s", name),
			SQL:         target.Tables[name],
		})
	}

	for _, name := range cls.RemovedTables {
		ops = append(ops, Operation{
			Kind:        KindDropTable,
			Description: fmt.Sprintf("drop table %s", name),
			SQL:         fmt.Sprintf(`DROP TABLE "%s"`, name),
		})
	}

	for _, name := range cls.ModifiedTables {
		rebuild, err := rebuildTable(current, target, name, allowDeletions)
		if err != nil {
			return nil, err
		}
		ops = append(ops, rebuild...)
	}

	for _, name := range cls.RemovedIndices {
		ops = append(ops, dropIndex(name))
	}
	for _, name := range cls.NewIndices {
		ops = append(ops, createIndex(name, target.Indices[name]))
	}
	for _, name := range cls.ChangedIndices {
		ops = append(ops, dropIndex(name), createIndex(name, target.Indices[name]))
	}

	ops = append(ops, pragmaChanges(current, target)...)

	for _, name := range sortedNames(current.Tables) {
		if strings.HasSuffix(name, diff.RebuildSuffix) {
			ops = append(ops, Operation{
				Kind:        KindDropLeftover,
				Description: fmt.Sprintf("drop leftover rebuild table %s", name),
				SQL:         fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, name),
			})
		}
	}

	return ops, nil
}

// rebuildTable emits the multi-step procedure SQLite needs to change a
// table's shape: create the new shape under a temporary name, copy the rows
// the two shapes share, drop the old table, rename the new one into place.
func rebuildTable(current, target *catalog.Snapshot, name string, allowDeletions bool) ([]Operation, error) {
	tempName := name + diff.RebuildSuffix
	tempSQL := renameInStatement(target.Tables[name], name, tempName)

	targetCols := make(map[string]bool, len(target.Columns[name]))
	for _, col := range target.Columns[name] {
		targetCols[col] = true
	}

	var dropped, common []string
	for _, col := range current.Columns[name] {
		if targetCols[col] {
			common = append(common, col)
		} else {
			dropped = append(dropped, col)
		}
	}
	if len(dropped) > 0 && !allowDeletions {
		return nil, &diff.DestructiveError{Columns: map[string][]string{name: dropped}}
	}

	ops := []Operation{{
		Kind:        KindCreateTable,
		Description: fmt.Sprintf("rebuild table %s: create replacement", name),
		SQL:         tempSQL,
	}}

	if len(common) > 0 {
		quoted := make([]string, len(common))
		for i, col := range common {
			quoted[i] = fmt.Sprintf(`"%s"`, col)
		}
		columnList := strings.Join(quoted, ", ")
		ops = append(ops, Operation{
			Kind:        KindCopyRows,
			Description: fmt.Sprintf("rebuild table %s: copy shared columns", name),
			SQL: fmt.Sprintf(`INSERT INTO "%s"(%s) SELECT %s FROM "%s"`,
				tempName, columnList, columnList, name),
		})
	} else {
		ops = append(ops, Operation{
			Kind:        KindNote,
			Description: fmt.Sprintf("rebuild table %s: no shared columns, nothing to copy", name),
		})
	}

	ops = append(ops,
		Operation{
			Kind:        KindDropTable,
			Description: fmt.Sprintf("rebuild table %s: drop old shape", name),
			SQL:         fmt.Sprintf(`DROP TABLE "%s"`, name),
		},
		Operation{
			Kind:        KindRenameTable,
			Description: fmt.Sprintf("rebuild table %s: rename replacement into place", name),
			SQL:         fmt.Sprintf(`ALTER TABLE "%s" RENAME TO "%s"`, tempName, name),
		},
	)
	return ops, nil
}

// renameInStatement rewrites every whole-word occurrence of a table name
// inside its own CREATE TABLE text. Word-boundary substitution is a pragmatic
// approximation; a name colliding with an unrelated identifier elsewhere in
// the statement would be rewritten too.
func renameInStatement(stmt, oldName, newName string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(oldName) + `\b`)
	return re.ReplaceAllString(stmt, newName)
}

func dropIndex(name string) Operation {
	return Operation{
		Kind:        KindDropIndex,
		Description: fmt.Sprintf("drop index %s", name),
		SQL:         fmt.Sprintf(`DROP INDEX "%s"`, name),
	}
}

func createIndex(name, definingSQL string) Operation {
	return Operation{
		Kind:        KindCreateIndex,
		Description: fmt.Sprintf("create index %s", name),
		SQL:         definingSQL,
	}
}

// pragmaChanges emits a PRAGMA statement for every tracked pragma whose
// target value differs from the live value.
func pragmaChanges(current, target *catalog.Snapshot) []Operation {
	var ops []Operation
	for _, name := range sortedNames(target.Pragmas) {
		want := target.Pragmas[name]
		if current.Pragmas[name] == want {
			continue
		}
		ops = append(ops, Operation{
			Kind:        KindSetPragma,
			Description: fmt.Sprintf("set pragma %s = %s", name, want),
			SQL:         fmt.Sprintf("PRAGMA %s = %s", name, want),
		})
	}
	return ops
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
