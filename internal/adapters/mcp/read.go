package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"unsort/internal/application"
	"unsort/internal/application/commands"
	"unsort/internal/domain"
)

// RegisterReadTools adds all read-only cluster tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, ws *application.Workspace) {
	s.AddTool(listClustersTool(), listClustersHandler(ws))
	s.AddTool(openClusterTool(), openClusterHandler(ws))
	s.AddTool(listNotesTool(), listNotesHandler(ws))
	s.AddTool(listCategoriesTool(), listCategoriesHandler(ws))
}

// --- list_clusters ---

func listClustersTool() mcp.Tool {
	return mcp.NewTool("list_clusters",
		mcp.WithDescription("List the visible clusters grouped by section (people, local, manual, remote, other), in the user's order, with note counts."),
		mcp.WithString("section",
			mcp.Description("Only list this section. Omit for all sections."),
			mcp.Enum(sectionNames()...),
		),
	)
}

func listClustersHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewListClustersCommand(ws, req.GetString("section", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Total == 0 {
			return mcp.NewToolResultText("No clusters."), nil
		}

		var sb strings.Builder
		for _, group := range result.Sections {
			fmt.Fprintf(&sb, "## %s\n", group.Section.Title())
			for _, row := range group.Clusters {
				sb.WriteString(formatClusterRow(row))
				sb.WriteByte('\n')
			}
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- open_cluster ---

func openClusterTool() mcp.Tool {
	return mcp.NewTool("open_cluster",
		mcp.WithDescription("Open a cluster: its local notes plus the memory items retrieved for it, with near-duplicates merged."),
		mcp.WithString("id",
			mcp.Description("Cluster ID (e.g. local:work, entity:田中さん, remote:habits)"),
			mcp.Required(),
		),
		mcp.WithBoolean("raw",
			mcp.Description("Show the retrieved items as returned, without merging or preferences"),
		),
	)
}

func openClusterHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		result, err := commands.NewOpenClusterCommand(ws, id).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if !result.Found {
			return toolError(fmt.Errorf("%s", result.Message))
		}
		return mcp.NewToolResultText(formatClusterView(result.View, req.GetBool("raw", false))), nil
	}
}

// --- list_notes ---

func listNotesTool() mcp.Tool {
	return mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, newest first. With a cluster ID lists only the notes in that cluster."),
		mcp.WithString("cluster_id",
			mcp.Description("Cluster ID to filter by. Omit to list all notes."),
		),
	)
}

func listNotesHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewListNotesCommand(ws, req.GetString("cluster_id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(result.Notes, formatNote)
	}
}

// --- list_categories ---

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool("list_categories",
		mcp.WithDescription("List the user-defined categories."),
	)
}

func listCategoriesHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		categories, err := commands.NewListCategoriesCommand(ws).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(categories, formatCategory)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func sectionNames() []string {
	names := make([]string, 0, len(domain.Sections))
	for _, s := range domain.Sections {
		names = append(names, string(s))
	}
	return names
}

func formatClusterRow(row commands.ClusterSummary) string {
	count := "?"
	if row.CountKnown {
		count = fmt.Sprintf("%d", row.NoteCount)
	}
	return fmt.Sprintf("%s  %s  (%s)", row.Cluster.ID(), row.Cluster.Name, count)
}

func formatClusterView(view *application.ClusterView, raw bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", view.Cluster.Name)
	if view.Cluster.Description != "" {
		fmt.Fprintf(&sb, "%s\n", view.Cluster.Description)
	}
	if view.Summary != "" {
		fmt.Fprintf(&sb, "\nSummary: %s\n", view.Summary)
	}

	if len(view.Notes) > 0 {
		sb.WriteString("\n## Notes\n")
		for _, n := range view.Notes {
			sb.WriteString(formatNote(n))
			sb.WriteByte('\n')
		}
	}

	if raw {
		if len(view.RawItems) > 0 {
			sb.WriteString("\n## Items (raw)\n")
			for _, item := range view.RawItems {
				fmt.Fprintf(&sb, "[%s] %s\n", item.Type, item.Content)
			}
		}
	} else if len(view.Items) > 0 {
		sb.WriteString("\n## Items\n")
		for _, item := range view.Items {
			fmt.Fprintf(&sb, "%s  %s  x%d\n", item.ID, domain.BulletLine(item.Content), item.Count)
		}
	}

	if view.RetrieveErr != nil {
		fmt.Fprintf(&sb, "\n(memory items unavailable: %v)\n", view.RetrieveErr)
	}
	return sb.String()
}

func formatNote(n domain.Note) string {
	return fmt.Sprintf("%s  %s  %s", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), domain.Snippet(n.Text, 120))
}

func formatCategory(c domain.UserCategory) string {
	if c.Description == "" {
		return fmt.Sprintf("%s  %s", c.ID, c.Name)
	}
	return fmt.Sprintf("%s  %s  %s", c.ID, c.Name, c.Description)
}
