package commands

import (
	"context"
	"fmt"

	"unsort/internal/application"
)

// HideItemResult contains the result of hiding a memory item
type HideItemResult struct {
	ClusterID string
	ItemID    string
	Changed   bool
	Message   string
}

// HideItemCommand hides an aggregated memory item within a cluster
type HideItemCommand struct {
	ws        *application.Workspace
	ClusterID string
	ItemID    string
}

// NewHideItemCommand creates a new HideItemCommand
func NewHideItemCommand(ws *application.Workspace, clusterID, itemID string) *HideItemCommand {
	return &HideItemCommand{
		ws:        ws,
		ClusterID: clusterID,
		ItemID:    itemID,
	}
}

// Validate checks the ids
func (c *HideItemCommand) Validate() error {
	if err := application.ValidateClusterID("clusterID", c.ClusterID); err != nil {
		return err
	}
	return application.ValidateRequired("itemID", c.ItemID)
}

// Execute runs the hide item command
func (c *HideItemCommand) Execute(ctx context.Context) (*HideItemResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	changed, err := c.ws.HideItem(ctx, c.ClusterID, c.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to hide item: %w", err)
	}

	message := fmt.Sprintf("Hid item %s in %s", c.ItemID, c.ClusterID)
	if !changed {
		message = fmt.Sprintf("Item %s is already hidden in %s", c.ItemID, c.ClusterID)
	}
	return &HideItemResult{
		ClusterID: c.ClusterID,
		ItemID:    c.ItemID,
		Changed:   changed,
		Message:   message,
	}, nil
}

// OrderItemsResult contains the stored item order of a cluster
type OrderItemsResult struct {
	ClusterID string
	Order     []string
	Message   string
}

// OrderItemsCommand sets the explicit order of a cluster's memory items
type OrderItemsCommand struct {
	ws        *application.Workspace
	ClusterID string
	ItemIDs   []string
}

// NewOrderItemsCommand creates a new OrderItemsCommand
func NewOrderItemsCommand(ws *application.Workspace, clusterID string, itemIDs []string) *OrderItemsCommand {
	return &OrderItemsCommand{
		ws:        ws,
		ClusterID: clusterID,
		ItemIDs:   itemIDs,
	}
}

// Validate checks the ids
func (c *OrderItemsCommand) Validate() error {
	if err := application.ValidateClusterID("clusterID", c.ClusterID); err != nil {
		return err
	}
	for _, id := range c.ItemIDs {
		if err := application.ValidateRequired("itemID", id); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the order items command
func (c *OrderItemsCommand) Execute(ctx context.Context) (*OrderItemsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.ws.SetItemOrder(ctx, c.ClusterID, c.ItemIDs); err != nil {
		return nil, fmt.Errorf("failed to order items: %w", err)
	}

	return &OrderItemsResult{
		ClusterID: c.ClusterID,
		Order:     c.ItemIDs,
		Message:   fmt.Sprintf("Ordered %d items in %s", len(c.ItemIDs), c.ClusterID),
	}, nil
}
