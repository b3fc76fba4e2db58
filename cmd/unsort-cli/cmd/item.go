package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsort/internal/application/commands"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Hide or order the memory items of a cluster",
	Long: `Hide or order the memory items of a cluster. Item ids are shown by
"show <cluster-id>".`,
}

var itemHideCmd = &cobra.Command{
	Use:   "hide <cluster-id> <item-id>",
	Short: "Hide a memory item in a cluster",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewHideItemCommand(GetWorkspace(), args[0], args[1]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var itemOrderCmd = &cobra.Command{
	Use:   "order <cluster-id> <item-id>...",
	Short: "Set the order of memory items in a cluster",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewOrderItemsCommand(GetWorkspace(), args[0], args[1:]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	itemCmd.AddCommand(itemHideCmd, itemOrderCmd)
	rootCmd.AddCommand(itemCmd)
}
