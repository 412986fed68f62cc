package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemasync/cli/internal/config"
	"github.com/satishbabariya/schemasync/cli/internal/ui"
	"github.com/satishbabariya/schemasync/migrate"
)

var planDBPath string

var planCmd = &cobra.Command{
	Use:   "plan [schema-path]",
	Short: "Show the operations apply would run, without executing them",
	Long: `Show the operations apply would run, without executing them.

The plan is computed exactly as apply computes it, including destructive
operations, but nothing is executed against the live database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		schemaPath := cfg.SchemaPath
		if len(args) > 0 {
			schemaPath = args[0]
		}
		dbPath := cfg.DatabasePath
		if planDBPath != "" {
			dbPath = planDBPath
		}

		schemaText, err := readSchema(schemaPath)
		if err != nil {
			return err
		}

		db, err := openDatabase(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		// Deletions are authorized for planning so the dry run can show
		// what --allow-deletions would do instead of refusing.
		ops, err := migrate.Plan(context.Background(), db, schemaText, migrate.Options{
			AllowDeletions: true,
			Pragmas:        cfg.Pragmas,
		})
		if err != nil {
			ui.PrintError("planning failed: %v", err)
			return err
		}

		if len(ops) == 0 {
			ui.PrintSuccess("Database %s already matches %s", dbPath, schemaPath)
			return nil
		}

		rows := make([][]string, 0, len(ops))
		for _, op := range ops {
			rows = append(rows, []string{string(op.Kind), op.Description, op.SQL})
		}
		ui.PrintTable([]string{"KIND", "DESCRIPTION", "SQL"}, rows)
		ui.PrintWarning("%d operation(s) pending; run apply to execute them", len(ops))
		return nil
	},
}

func init() {
	planCmd.Flags().StringVar(&planDBPath, "db", "", "Database path (default from config)")
	rootCmd.AddCommand(planCmd)
}
