package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"unsort/internal/ports"
)

// Store implements ports.DocumentStore with one <key>.json file per key
type Store struct {
	dir string
	mu  sync.Mutex
}

// Ensure Store implements DocumentStore
var _ ports.DocumentStore = (*Store)(nil)

// Open creates the data directory if needed and returns a store rooted there
func Open(dir string) (*Store, error) {
	dir = expandHome(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// Load decodes <key>.json into v
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ports.ErrCorruptDocument, key, err)
	}
	return true, nil
}

// Save writes v to <key>.json
func (s *Store) Save(ctx context.Context, key string, v any) error {
	return s.SaveAll(ctx, ports.Document{Key: key, Value: v})
}

// SaveAll encodes every document first, then replaces the files one by one.
// Each file is replaced atomically; the set as a whole is not.
func (s *Store) SaveAll(ctx context.Context, docs ...ports.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded := make([][]byte, len(docs))
	for i, doc := range docs {
		data, err := json.MarshalIndent(doc.Value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", doc.Key, err)
		}
		encoded[i] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range docs {
		if err := s.writeFile(doc.Key, encoded[i]); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the stored document keys with their file modification time
func (s *Store) Keys(ctx context.Context) (map[string]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	keys := make(map[string]time.Time)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		keys[strings.TrimSuffix(name, ".json")] = info.ModTime()
	}
	return keys, nil
}

// Close is a no-op; the store holds no open files
func (s *Store) Close() error {
	return nil
}

// writeFile writes through a temp file in the same directory and renames it
// over the target so readers never see a partial document
func (s *Store) writeFile(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
