package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemasync/cli/internal/config"
	"github.com/satishbabariya/schemasync/cli/internal/ui"
	"github.com/satishbabariya/schemasync/migrate"
	"github.com/satishbabariya/schemasync/migrate/diff"
)

var (
	applyDBPath         string
	applyAllowDeletions bool
	applyYes            bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [schema-path]",
	Short: "Apply the target schema to the database",
	Long: `Apply the target schema to the database.

Reads the schema file, compares it against the live database, and executes
the minimal operation sequence that makes them match. Destructive changes
(dropping tables or columns) are refused unless --allow-deletions is set;
without --yes you are prompted before re-running with deletions enabled.

Examples:
  # Apply schema.sql to data.db
  schemasync apply schema.sql --db data.db

  # Allow dropping tables and columns no longer in the schema
  schemasync apply schema.sql --db data.db --allow-deletions`,
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
		if applyDBPath != "" {
			dbPath = applyDBPath
		}
		allowDeletions := applyAllowDeletions || cfg.AllowDeletions

		return runApply(schemaPath, dbPath, cfg.Pragmas, allowDeletions, applyYes)
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyDBPath, "db", "", "Database path (default from config)")
	applyCmd.Flags().BoolVar(&applyAllowDeletions, "allow-deletions", false, "Authorize dropping tables and columns")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "Never prompt; fail instead")
	rootCmd.AddCommand(applyCmd)
}

func runApply(schemaPath, dbPath string, pragmas []string, allowDeletions, noPrompt bool) error {
	schemaText, err := readSchema(schemaPath)
	if err != nil {
		return err
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	opts := migrate.Options{
		AllowDeletions: allowDeletions,
		Pragmas:        pragmas,
		Log:            logRecord,
	}

	changed, err := migrate.Migrate(context.Background(), db, schemaText, opts)

	var destructive *diff.DestructiveError
	if errors.As(err, &destructive) && !allowDeletions && !noPrompt {
		ui.PrintWarning("%v", destructive)
		confirmed := false
		prompt := &survey.Confirm{Message: "Re-run with deletions allowed?"}
		if err := survey.AskOne(prompt, &confirmed); err != nil {
			return err
		}
		if !confirmed {
			return destructive
		}
		opts.AllowDeletions = true
		changed, err = migrate.Migrate(context.Background(), db, schemaText, opts)
	}

	if err != nil {
		ui.PrintError("migration failed: %v", err)
		return err
	}

	if changed {
		ui.PrintSuccess("Database %s now matches %s", dbPath, schemaPath)
	} else {
		ui.PrintInfo(fmt.Sprintf("Database %s already matches %s, nothing to do", dbPath, schemaPath))
	}
	return nil
}
