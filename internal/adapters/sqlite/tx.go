package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// documentTx wraps a transaction over the documents table
type documentTx struct {
	tx  *sql.Tx
	now time.Time
}

func (s *Store) beginTx(ctx context.Context) (*documentTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &documentTx{tx: tx, now: s.now()}, nil
}

// Put encodes v and inserts or replaces the document
func (t *documentTx) Put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, string(data), t.now.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Commit commits the transaction
func (t *documentTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *documentTx) Rollback() error {
	return t.tx.Rollback()
}
