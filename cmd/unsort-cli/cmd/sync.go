package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsort/internal/application/commands"
)

var syncLocal bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rebuild clusters and fetch categories from the memory service",
	Long: `Rebuild the cluster list. Online, the categories of the memory service are
fetched again; when that fails the previous ones are kept.

Examples:
  unsort-cli sync
  unsort-cli sync --local`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		localOnly := syncLocal || !GetWorkspace().Online()
		result, err := commands.NewSyncCommand(GetWorkspace(), localOnly).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncLocal, "local", false, "rebuild local clusters only")
	rootCmd.AddCommand(syncCmd)
}
