package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"unsort/internal/application"
	"unsort/internal/domain"
)

// ClusterSummary is one row of the cluster list
type ClusterSummary struct {
	Cluster    domain.Cluster
	NoteCount  int
	CountKnown bool // false for clusters whose notes live only in the memory service
}

// SectionClusters groups the visible clusters of one section
type SectionClusters struct {
	Section  domain.Section
	Clusters []ClusterSummary
}

// ListClustersResult contains the cluster list, by section, in display order
type ListClustersResult struct {
	Sections []SectionClusters
	Total    int
}

// ListClustersCommand lists the merged clusters
type ListClustersCommand struct {
	ws      *application.Workspace
	Section string // empty for all sections
}

// NewListClustersCommand creates a new ListClustersCommand
func NewListClustersCommand(ws *application.Workspace, section string) *ListClustersCommand {
	return &ListClustersCommand{
		ws:      ws,
		Section: section,
	}
}

// Validate checks the section filter
func (c *ListClustersCommand) Validate() error {
	if c.Section == "" {
		return nil
	}
	_, err := application.ValidateSection("section", c.Section)
	return err
}

// Execute runs the list clusters command
func (c *ListClustersCommand) Execute(ctx context.Context) (*ListClustersResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	sections := domain.Sections
	if c.Section != "" {
		sections = []domain.Section{domain.Section(c.Section)}
	}

	result := &ListClustersResult{}
	for _, section := range sections {
		clusters := c.ws.SectionClusters(section)
		if len(clusters) == 0 {
			continue
		}
		group := SectionClusters{Section: section}
		for _, cluster := range clusters {
			count, known := c.ws.NoteCount(cluster)
			group.Clusters = append(group.Clusters, ClusterSummary{
				Cluster:    cluster,
				NoteCount:  count,
				CountKnown: known,
			})
		}
		result.Sections = append(result.Sections, group)
		result.Total += len(group.Clusters)
	}
	return result, nil
}

// OpenClusterResult contains an opened cluster
type OpenClusterResult struct {
	View    *application.ClusterView
	Found   bool
	Message string
}

// OpenClusterCommand loads the notes and memory items of a cluster
type OpenClusterCommand struct {
	ws        *application.Workspace
	ClusterID string
}

// NewOpenClusterCommand creates a new OpenClusterCommand
func NewOpenClusterCommand(ws *application.Workspace, clusterID string) *OpenClusterCommand {
	return &OpenClusterCommand{
		ws:        ws,
		ClusterID: clusterID,
	}
}

// Validate checks the cluster id
func (c *OpenClusterCommand) Validate() error {
	return application.ValidateClusterID("clusterID", c.ClusterID)
}

// Execute runs the open cluster command
func (c *OpenClusterCommand) Execute(ctx context.Context) (*OpenClusterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	view, err := c.ws.OpenCluster(ctx, c.ClusterID)
	if errors.Is(err, application.ErrNotFound) {
		return &OpenClusterResult{Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster: %w", err)
	}

	message := fmt.Sprintf("%s: %d notes, %d items", view.Cluster.Name, len(view.Notes), len(view.Items))
	if view.RetrieveErr != nil {
		message += fmt.Sprintf(" (memory service: %v)", view.RetrieveErr)
	}
	return &OpenClusterResult{View: view, Found: true, Message: message}, nil
}

// HideClusterResult contains the result of hiding a cluster
type HideClusterResult struct {
	ClusterID string
	Found     bool
	Changed   bool
	Message   string
}

// HideClusterCommand hides a cluster from the list
type HideClusterCommand struct {
	ws        *application.Workspace
	ClusterID string
}

// NewHideClusterCommand creates a new HideClusterCommand
func NewHideClusterCommand(ws *application.Workspace, clusterID string) *HideClusterCommand {
	return &HideClusterCommand{
		ws:        ws,
		ClusterID: clusterID,
	}
}

// Validate checks the cluster id
func (c *HideClusterCommand) Validate() error {
	return application.ValidateClusterID("clusterID", c.ClusterID)
}

// Execute runs the hide cluster command
func (c *HideClusterCommand) Execute(ctx context.Context) (*HideClusterResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	changed, err := c.ws.HideCluster(ctx, c.ClusterID)
	if errors.Is(err, application.ErrNotFound) {
		return &HideClusterResult{ClusterID: c.ClusterID, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hide cluster: %w", err)
	}

	message := fmt.Sprintf("Hid cluster %s", c.ClusterID)
	if !changed {
		message = fmt.Sprintf("Cluster %s is already hidden", c.ClusterID)
	}
	return &HideClusterResult{
		ClusterID: c.ClusterID,
		Found:     true,
		Changed:   changed,
		Message:   message,
	}, nil
}

// OrderClustersResult contains the stored order of a section
type OrderClustersResult struct {
	Section domain.Section
	Order   []string
	Message string
}

// OrderClustersCommand sets the explicit order of a section's clusters
type OrderClustersCommand struct {
	ws         *application.Workspace
	Section    string
	ClusterIDs []string
}

// NewOrderClustersCommand creates a new OrderClustersCommand
func NewOrderClustersCommand(ws *application.Workspace, section string, clusterIDs []string) *OrderClustersCommand {
	return &OrderClustersCommand{
		ws:         ws,
		Section:    section,
		ClusterIDs: clusterIDs,
	}
}

// Validate checks the section and ids
func (c *OrderClustersCommand) Validate() error {
	section, err := application.ValidateSection("section", c.Section)
	if err != nil {
		return err
	}
	for _, id := range c.ClusterIDs {
		if err := application.ValidateClusterID("clusterID", id); err != nil {
			return err
		}
		origin, _ := domain.ParseClusterID(id)
		if origin.Section() != section {
			return &application.ValidationError{
				Field:   "clusterID",
				Message: fmt.Sprintf("cluster %s does not belong to section %s", id, section),
			}
		}
	}
	return nil
}

// Execute runs the order clusters command
func (c *OrderClustersCommand) Execute(ctx context.Context) (*OrderClustersResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	section := domain.Section(c.Section)
	if err := c.ws.SetClusterOrder(ctx, section, c.ClusterIDs); err != nil {
		return nil, fmt.Errorf("failed to order clusters: %w", err)
	}

	return &OrderClustersResult{
		Section: section,
		Order:   c.ClusterIDs,
		Message: fmt.Sprintf("Ordered %s: %s", section, strings.Join(c.ClusterIDs, ", ")),
	}, nil
}

// MoveClusterCommand moves clusters within a section by position
type MoveClusterCommand struct {
	ws      *application.Workspace
	Section string
	From    []int
	To      int
}

// NewMoveClusterCommand creates a new MoveClusterCommand
func NewMoveClusterCommand(ws *application.Workspace, section string, from []int, to int) *MoveClusterCommand {
	return &MoveClusterCommand{
		ws:      ws,
		Section: section,
		From:    from,
		To:      to,
	}
}

// Validate checks the section and positions
func (c *MoveClusterCommand) Validate() error {
	if _, err := application.ValidateSection("section", c.Section); err != nil {
		return err
	}
	if len(c.From) == 0 {
		return &application.ValidationError{Field: "from", Message: "at least one position is required"}
	}
	for _, i := range c.From {
		if i < 0 {
			return &application.ValidationError{Field: "from", Message: fmt.Sprintf("invalid position: %d", i)}
		}
	}
	if c.To < 0 {
		return &application.ValidationError{Field: "to", Message: fmt.Sprintf("invalid position: %d", c.To)}
	}
	return nil
}

// Execute runs the move cluster command
func (c *MoveClusterCommand) Execute(ctx context.Context) (*OrderClustersResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	section := domain.Section(c.Section)
	order, err := c.ws.MoveClusters(ctx, section, c.From, c.To)
	if err != nil {
		return nil, fmt.Errorf("failed to move clusters: %w", err)
	}

	return &OrderClustersResult{
		Section: section,
		Order:   order,
		Message: fmt.Sprintf("Ordered %s: %s", section, strings.Join(order, ", ")),
	}, nil
}
