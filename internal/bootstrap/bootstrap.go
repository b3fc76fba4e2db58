// Package bootstrap assembles a loaded Workspace from the resolved configuration.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"unsort/internal/adapters/jsonstore"
	"unsort/internal/adapters/memu"
	"unsort/internal/adapters/sqlite"
	"unsort/internal/application"
	"unsort/internal/config"
	"unsort/internal/ports"
)

// OpenStore opens the document store selected by cfg
func OpenStore(cfg *config.Config) (ports.DocumentStore, error) {
	switch cfg.Store.Value {
	case config.StoreSQLite:
		return sqlite.Open(cfg.DBPath())
	case config.StoreJSON:
		return jsonstore.Open(cfg.DataDir.Value)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store.Value)
	}
}

// StoreInfo describes where documents are kept and what is stored
type StoreInfo struct {
	Kind      string
	Location  string
	Documents map[string]time.Time // key -> last write
}

// DescribeStore opens the configured store and lists its documents
func DescribeStore(ctx context.Context, cfg *config.Config) (*StoreInfo, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Value, err)
	}
	defer store.Close()

	info := &StoreInfo{Kind: cfg.Store.Value}
	switch s := store.(type) {
	case *sqlite.Store:
		info.Location = s.Path()
		info.Documents, err = s.Keys(ctx)
	case *jsonstore.Store:
		info.Location = s.Dir()
		info.Documents, err = s.Keys(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return info, nil
}

// NewService returns the memory service client, or nil when cfg is offline
func NewService(cfg *config.Config, logger *log.Logger) ports.MemoryService {
	if !cfg.Online() {
		return nil
	}
	return memu.NewClient(memu.Options{
		BaseURL: cfg.MemUURL.Value,
		Token:   cfg.MemUToken.Value,
		UserID:  cfg.UserID.Value,
		AgentID: cfg.AgentID.Value,
		Timeout: cfg.HTTPTimeout(),
		Logger:  logger,
	})
}

// Workspace opens the store, connects the memory service when configured
// and loads the persisted state. Callers close the workspace when done.
func Workspace(ctx context.Context, cfg *config.Config, logger *log.Logger) (*application.Workspace, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Value, err)
	}

	interval, attempts := cfg.Poll()
	ws := application.NewWorkspace(store, NewService(cfg, logger), application.Options{
		PollInterval: interval,
		PollAttempts: attempts,
		Logger:       logger,
	})
	if err := ws.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}

	logger.Debug("workspace loaded",
		"store", cfg.Store.Value,
		"data_dir", cfg.DataDir.Value,
		"online", ws.Online(),
		"notes", len(ws.Notes()),
	)
	return ws, nil
}
