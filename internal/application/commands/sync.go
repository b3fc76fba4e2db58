package commands

import (
	"context"
	"fmt"

	"unsort/internal/application"
	"unsort/internal/domain"
)

// SyncResult contains the cluster count after a sync
type SyncResult struct {
	Clusters int
	Remote   int
	Message  string
}

// SyncCommand rebuilds the cluster list, refetching the remote categories
// unless LocalOnly is set
type SyncCommand struct {
	ws        *application.Workspace
	LocalOnly bool
}

// NewSyncCommand creates a new SyncCommand
func NewSyncCommand(ws *application.Workspace, localOnly bool) *SyncCommand {
	return &SyncCommand{
		ws:        ws,
		LocalOnly: localOnly,
	}
}

// Execute runs the sync command
func (c *SyncCommand) Execute(ctx context.Context) (*SyncResult, error) {
	var err error
	if c.LocalOnly {
		err = c.ws.RefreshLocal(ctx)
	} else {
		err = c.ws.Resync(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sync: %w", err)
	}

	clusters := c.ws.Clusters()
	remote := len(domain.ClustersByOrigin(clusters, domain.OriginRemote))
	return &SyncResult{
		Clusters: len(clusters),
		Remote:   remote,
		Message:  fmt.Sprintf("Synced %d clusters (%d from memory)", len(clusters), remote),
	}, nil
}
