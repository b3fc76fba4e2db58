package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"unsort/internal/application"
	"unsort/internal/application/commands"
)

// RegisterWriteTools adds all mutating tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, ws *application.Workspace) {
	s.AddTool(addNoteTool(), addNoteHandler(ws))
	s.AddTool(editNoteTool(), editNoteHandler(ws))
	s.AddTool(deleteNoteTool(), deleteNoteHandler(ws))
	s.AddTool(tagNoteTool(), tagNoteHandler(ws))
	s.AddTool(createCategoryTool(), createCategoryHandler(ws))
	s.AddTool(deleteCategoryTool(), deleteCategoryHandler(ws))
	s.AddTool(hideClusterTool(), hideClusterHandler(ws))
	s.AddTool(orderClustersTool(), orderClustersHandler(ws))
	s.AddTool(hideItemTool(), hideItemHandler(ws))
	s.AddTool(orderItemsTool(), orderItemsHandler(ws))
	s.AddTool(syncTool(), syncHandler(ws))
}

// --- add_note ---

func addNoteTool() mcp.Tool {
	return mcp.NewTool("add_note",
		mcp.WithDescription("Save a note. It is classified locally right away and, unless submit is false, sent to the memory service."),
		mcp.WithString("text",
			mcp.Description("Note text"),
			mcp.Required(),
		),
		mcp.WithBoolean("submit",
			mcp.Description("Send the note to the memory service and wait for it to be processed (default true)"),
		),
	)
}

func addNoteHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text := req.GetString("text", "")

		if !req.GetBool("submit", true) {
			result, err := commands.NewCreateNoteCommand(ws, text).Execute(ctx)
			if err != nil {
				return toolError(err)
			}
			return mcp.NewToolResultText(result.Message), nil
		}

		// A submission error after the note was saved is reported in the message
		result, err := commands.NewSubmitNoteCommand(ws, text).Execute(ctx)
		if result == nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- edit_note ---

func editNoteTool() mcp.Tool {
	return mcp.NewTool("edit_note",
		mcp.WithDescription("Replace the text of a note. Its clusters are recomputed."),
		mcp.WithString("id",
			mcp.Description("Note ID"),
			mcp.Required(),
		),
		mcp.WithString("text",
			mcp.Description("New note text"),
			mcp.Required(),
		),
	)
}

func editNoteHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewEditNoteCommand(ws, req.GetString("id", ""), req.GetString("text", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_note ---

func deleteNoteTool() mcp.Tool {
	return mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note."),
		mcp.WithString("id",
			mcp.Description("Note ID"),
			mcp.Required(),
		),
	)
}

func deleteNoteHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteNoteCommand(ws, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- tag_note ---

func tagNoteTool() mcp.Tool {
	return mcp.NewTool("tag_note",
		mcp.WithDescription("File a note under a user category, or remove it if it is already filed there."),
		mcp.WithString("note_id",
			mcp.Description("Note ID"),
			mcp.Required(),
		),
		mcp.WithString("category_id",
			mcp.Description("User category ID"),
			mcp.Required(),
		),
	)
}

func tagNoteHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewToggleNoteCategoryCommand(ws, req.GetString("note_id", ""), req.GetString("category_id", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- create_category ---

func createCategoryTool() mcp.Tool {
	return mcp.NewTool("create_category",
		mcp.WithDescription("Create a user category. Notes filed under it form a manual cluster."),
		mcp.WithString("name",
			mcp.Description("Category name"),
			mcp.Required(),
		),
		mcp.WithString("description",
			mcp.Description("Optional description"),
		),
	)
}

func createCategoryHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewCreateCategoryCommand(ws, req.GetString("name", ""), req.GetString("description", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- delete_category ---

func deleteCategoryTool() mcp.Tool {
	return mcp.NewTool("delete_category",
		mcp.WithDescription("Delete a user category and unfile its notes."),
		mcp.WithString("id",
			mcp.Description("User category ID"),
			mcp.Required(),
		),
	)
}

func deleteCategoryHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewDeleteCategoryCommand(ws, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- hide_cluster ---

func hideClusterTool() mcp.Tool {
	return mcp.NewTool("hide_cluster",
		mcp.WithDescription("Hide a cluster from the list. It stays hidden across recomputes."),
		mcp.WithString("id",
			mcp.Description("Cluster ID"),
			mcp.Required(),
		),
	)
}

func hideClusterHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewHideClusterCommand(ws, req.GetString("id", "")).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- order_clusters ---

func orderClustersTool() mcp.Tool {
	return mcp.NewTool("order_clusters",
		mcp.WithDescription("Set the order of clusters within a section. Clusters not listed follow, by name."),
		mcp.WithString("section",
			mcp.Description("Section name"),
			mcp.Required(),
			mcp.Enum(sectionNames()...),
		),
		mcp.WithArray("ids",
			mcp.Description("Cluster IDs in the desired order"),
			mcp.Required(),
			mcp.WithStringItems(),
		),
	)
}

func orderClustersHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewOrderClustersCommand(ws, req.GetString("section", ""), req.GetStringSlice("ids", nil))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- hide_item ---

func hideItemTool() mcp.Tool {
	return mcp.NewTool("hide_item",
		mcp.WithDescription("Hide a memory item within a cluster."),
		mcp.WithString("cluster_id",
			mcp.Description("Cluster ID"),
			mcp.Required(),
		),
		mcp.WithString("item_id",
			mcp.Description("Item ID as shown by open_cluster"),
			mcp.Required(),
		),
	)
}

func hideItemHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewHideItemCommand(ws, req.GetString("cluster_id", ""), req.GetString("item_id", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- order_items ---

func orderItemsTool() mcp.Tool {
	return mcp.NewTool("order_items",
		mcp.WithDescription("Set the order of memory items within a cluster."),
		mcp.WithString("cluster_id",
			mcp.Description("Cluster ID"),
			mcp.Required(),
		),
		mcp.WithArray("ids",
			mcp.Description("Item IDs in the desired order"),
			mcp.Required(),
			mcp.WithStringItems(),
		),
	)
}

func orderItemsHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewOrderItemsCommand(ws, req.GetString("cluster_id", ""), req.GetStringSlice("ids", nil))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- sync ---

func syncTool() mcp.Tool {
	return mcp.NewTool("sync",
		mcp.WithDescription("Refetch the memory service categories and rebuild the cluster list."),
		mcp.WithBoolean("local_only",
			mcp.Description("Only rebuild the local clusters, without contacting the memory service"),
		),
	)
}

func syncHandler(ws *application.Workspace) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		localOnly := req.GetBool("local_only", false)
		if !ws.Online() && !localOnly {
			return toolError(fmt.Errorf("memory service is not configured; use local_only"))
		}
		result, err := commands.NewSyncCommand(ws, localOnly).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
