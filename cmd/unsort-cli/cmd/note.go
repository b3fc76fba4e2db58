package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"unsort/internal/application/commands"
	"unsort/internal/domain"
)

var noteLocal bool
var noteCluster string

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Write and manage notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Save a note and send it to the memory service",
	Long: `Save a note locally, then send it to the memory service and wait for it to
be processed. The note stays saved when the service fails.

Examples:
  unsort-cli note add "田中さんと明日の会議の資料を確認する"
  unsort-cli note add --local "Buy milk"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		if noteLocal || !GetWorkspace().Online() {
			result, err := commands.NewCreateNoteCommand(GetWorkspace(), text).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result.Message)
			if len(result.Categories) > 0 {
				fmt.Fprintf(out, "categories: %s\n", strings.Join(result.Categories, ", "))
			}
			if len(result.Entities) > 0 {
				fmt.Fprintf(out, "people: %s\n", strings.Join(result.Entities, ", "))
			}
			return nil
		}

		result, err := commands.NewSubmitNoteCommand(GetWorkspace(), text).Execute(cmd.Context())
		if result == nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		return err
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <note-id> <text...>",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewEditNoteCommand(GetWorkspace(), args[0], strings.Join(args[1:], " ")).Execute(cmd.Context())
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

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewDeleteNoteCommand(GetWorkspace(), args[0]).Execute(cmd.Context())
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

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Long: `List the active notes, newest first.

Examples:
  unsort-cli note list
  unsort-cli note list --cluster local:work`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewListNotesCommand(GetWorkspace(), noteCluster).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if len(result.Notes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes")
			return nil
		}
		for _, n := range result.Notes {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), domain.Snippet(n.Text, 80))
		}
		return nil
	},
}

var noteTagCmd = &cobra.Command{
	Use:   "tag <note-id> <category-id>",
	Short: "Add or remove a note from one of your categories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewToggleNoteCategoryCommand(GetWorkspace(), args[0], args[1]).Execute(cmd.Context())
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

func init() {
	noteAddCmd.Flags().BoolVar(&noteLocal, "local", false, "save without sending to the memory service")
	noteListCmd.Flags().StringVar(&noteCluster, "cluster", "", "only notes of this cluster")

	noteCmd.AddCommand(noteAddCmd, noteEditCmd, noteDeleteCmd, noteListCmd, noteTagCmd)
	rootCmd.AddCommand(noteCmd)
}
