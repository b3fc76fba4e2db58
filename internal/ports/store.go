package ports

import (
	"context"
	"errors"
)

// ErrCorruptDocument is returned by Load when a stored value cannot be decoded.
var ErrCorruptDocument = errors.New("corrupt document")

// Document keys persisted by the workspace.
const (
	KeyNotes          = "notes"
	KeyUserCategories = "user_categories"
	KeyClusters       = "clusters"
	KeyPreferences    = "preferences"
)

// Document is one keyed value to be persisted as JSON.
type Document struct {
	Key   string
	Value any
}

// DocumentStore persists JSON documents under fixed keys.
type DocumentStore interface {
	// Load decodes the document stored under key into v.
	// found is false when nothing was stored under key yet; v is left untouched.
	Load(ctx context.Context, key string, v any) (found bool, err error)

	// Save encodes v and stores it under key, replacing any previous value.
	Save(ctx context.Context, key string, v any) error

	// SaveAll stores several documents together, atomically where the backend allows.
	SaveAll(ctx context.Context, docs ...Document) error

	// Close releases the underlying resources
	Close() error
}
