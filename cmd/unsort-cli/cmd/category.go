package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsort/internal/application/commands"
)

var categoryDescription string

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage your own categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Long: `Create a category. Tag notes with it using "note tag".

Examples:
  unsort-cli category add Reading --description "books and articles"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewCreateCategoryCommand(GetWorkspace(), args[0], categoryDescription).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category and untag its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteCategoryCommand(GetWorkspace(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if !result.Found {
			return notFound(result.Message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := commands.NewListCategoriesCommand(GetWorkspace()).Execute(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			if c.Description == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.ID, c.Name)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s - %s\n", c.ID, c.Name, c.Description)
		}
		return nil
	},
}

func init() {
	categoryAddCmd.Flags().StringVarP(&categoryDescription, "description", "d", "", "category description")

	categoryCmd.AddCommand(categoryAddCmd, categoryDeleteCmd, categoryListCmd)
	rootCmd.AddCommand(categoryCmd)
}
