package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"unsort/internal/application/commands"
	"unsort/internal/domain"
)

var (
	clustersSection string
	showRaw         bool
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List clusters by section",
	Long: `List the visible clusters grouped into sections: people, local, manual,
remote and other. Note counts of remote clusters are unknown and shown as "?".

Examples:
  unsort-cli clusters
  unsort-cli clusters --section people`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewListClustersCommand(GetWorkspace(), clustersSection).Execute(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Total == 0 {
			fmt.Fprintln(out, "No clusters")
			return nil
		}
		for i, group := range result.Sections {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", group.Section.Title())
			for _, row := range group.Clusters {
				count := "?"
				if row.CountKnown {
					count = fmt.Sprint(row.NoteCount)
				}
				fmt.Fprintf(out, "  %s %s (%s)\n", row.Cluster.ID(), row.Cluster.Name, count)
			}
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <cluster-id>",
	Short: "Show the notes and memory items of a cluster",
	Long: `Show the local notes of a cluster and, when online, the memory items the
service returns for it with near-duplicates folded together.

Examples:
  unsort-cli show local:work
  unsort-cli show remote:habits --raw`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewOpenClusterCommand(GetWorkspace(), args[0]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		if !result.Found {
			return notFound(result.Message)
		}

		out := cmd.OutOrStdout()
		view := result.View
		fmt.Fprintf(out, "%s (%s)\n", view.Cluster.Name, view.Cluster.ID())
		if view.Cluster.Description != "" {
			fmt.Fprintln(out, view.Cluster.Description)
		}
		if view.Summary != "" {
			fmt.Fprintf(out, "\n%s\n", view.Summary)
		}

		if len(view.Notes) > 0 {
			fmt.Fprintf(out, "\nNotes (%d)\n", len(view.Notes))
			for _, n := range view.Notes {
				fmt.Fprintf(out, "  %s  %s\n", n.ID, domain.Snippet(n.Text, 80))
			}
		}

		if showRaw {
			if len(view.RawItems) > 0 {
				fmt.Fprintf(out, "\nRaw items (%d)\n", len(view.RawItems))
				for _, item := range view.RawItems {
					fmt.Fprintf(out, "  [%s] %s\n", item.Type, item.Content)
				}
			}
		} else if len(view.Items) > 0 {
			fmt.Fprintf(out, "\nMemory (%d)\n", len(view.Items))
			for _, item := range view.Items {
				line := domain.BulletLine(item.Content)
				if item.Count > 1 {
					line += fmt.Sprintf(" (%d)", item.Count)
				}
				fmt.Fprintf(out, "  %s\n    id: %s\n", line, item.ID)
			}
		}

		if view.RetrieveErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "memory items unavailable: %v\n", view.RetrieveErr)
		}
		return nil
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide <cluster-id>",
	Short: "Hide a cluster from the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewHideClusterCommand(GetWorkspace(), args[0]).Execute(cmd.Context())
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

var orderCmd = &cobra.Command{
	Use:   "order <section> <cluster-id>...",
	Short: "Set the order of clusters in a section",
	Long: `Set the explicit order of clusters in a section. Clusters left out keep
their default order after the listed ones.

Examples:
  unsort-cli order local local:study local:work`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewOrderClustersCommand(GetWorkspace(), args[0], args[1:]).Execute(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

func init() {
	clustersCmd.Flags().StringVarP(&clustersSection, "section", "s", "", "only this section (people, local, manual, remote, other)")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "show the retrieved items without folding duplicates")

	rootCmd.AddCommand(clustersCmd, showCmd, hideCmd, orderCmd)
}
