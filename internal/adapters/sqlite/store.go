package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"unsort/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// ErrSchemaTooNew is returned when the database was written by a newer release
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// Store implements ports.DocumentStore using SQLite
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Ensure Store implements DocumentStore
var _ ports.DocumentStore = (*Store)(nil)

// Open opens (or creates) the database at dbPath
func Open(dbPath string) (*Store, error) {
	// Expand ~ in path
	if len(dbPath) > 0 && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if err := checkSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dbPath: dbPath, now: time.Now}, nil
}

// checkSchema refuses databases from a newer schema and stamps the current one
func checkSchema(db *sql.DB) error {
	var stored string
	err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read metadata: %w", err)
	default:
		version, err := strconv.Atoi(stored)
		if err != nil {
			return fmt.Errorf("invalid schema version %q: %w", stored, err)
		}
		if version > schemaVersion {
			return fmt.Errorf("%w: %d > %d", ErrSchemaTooNew, version, schemaVersion)
		}
	}

	if _, err := db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load decodes the document stored under key into v
func (s *Store) Load(ctx context.Context, key string, v any) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM documents WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ports.ErrCorruptDocument, key, err)
	}
	return true, nil
}

// Save stores v under key
func (s *Store) Save(ctx context.Context, key string, v any) error {
	return s.SaveAll(ctx, ports.Document{Key: key, Value: v})
}

// SaveAll stores every document in a single transaction
func (s *Store) SaveAll(ctx context.Context, docs ...ports.Document) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, doc := range docs {
		if err := tx.Put(ctx, doc.Key, doc.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Keys returns the stored document keys with their last update time
func (s *Store) Keys(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, updated_at FROM documents ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var updated int64
		if err := rows.Scan(&key, &updated); err != nil {
			return nil, err
		}
		keys[key] = time.UnixMilli(updated)
	}
	return keys, rows.Err()
}
