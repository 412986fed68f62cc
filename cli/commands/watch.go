package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemasync/cli/internal/config"
	"github.com/satishbabariya/schemasync/cli/internal/ui"
	"github.com/satishbabariya/schemasync/cli/internal/watch"
)

var (
	watchDBPath         string
	watchAllowDeletions bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [schema-path]",
	Short: "Re-apply the schema whenever the schema file changes",
	Long: `Re-apply the schema whenever the schema file changes.

Applies once on startup, then watches the schema file and re-applies on
every save. Intended for development: edit schema.sql and the database
follows. Runs until interrupted.`,
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
		if watchDBPath != "" {
			dbPath = watchDBPath
		}
		allowDeletions := watchAllowDeletions || cfg.AllowDeletions

		apply := func() error {
			// Prompting makes no sense mid-watch; refuse instead.
			if err := runApply(schemaPath, dbPath, cfg.Pragmas, allowDeletions, true); err != nil {
				ui.PrintError("%v", err)
			}
			return nil
		}

		watcher, err := watch.NewWatcher(schemaPath, apply)
		if err != nil {
			return err
		}
		defer watcher.Stop()

		if err := watcher.Start(); err != nil {
			return err
		}
		ui.PrintInfo("Watching " + schemaPath + " (ctrl-c to stop)")

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDBPath, "db", "", "Database path (default from config)")
	watchCmd.Flags().BoolVar(&watchAllowDeletions, "allow-deletions", false, "Authorize dropping tables and columns")
	rootCmd.AddCommand(watchCmd)
}
