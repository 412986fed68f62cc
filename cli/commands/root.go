package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemasync/cli/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "schemasync",
	Short: "Declarative schema migrations for SQLite",
	Long: `schemasync reconciles a live SQLite database with a target schema
expressed as plain DDL text. It computes the minimal set of structural
changes (create/alter/drop tables, indices, pragmas) and applies them while
preserving existing row data wherever the table shape permits it.

The target schema is an ordinary .sql file of CREATE TABLE / CREATE INDEX
statements; there is no bespoke schema format and no numbered migration
files to maintain.`,
	Version:       version.Get().Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point for the CLI
func Execute() error {
	return rootCmd.Execute()
}
