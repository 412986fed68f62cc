package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/schemasync/cli/internal/update"
	"github.com/satishbabariya/schemasync/cli/internal/version"
)

var versionCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		fmt.Println(info.FullString())
		if versionCheck {
			return update.CheckForUpdates(info.Version)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "Check for a newer release")
	rootCmd.AddCommand(versionCmd)
}
