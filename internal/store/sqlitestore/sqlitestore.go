// Package sqlitestore stores namespace snapshots as rows of a SQLite table.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	namespace  TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Store is a SQLite database with one snapshot row per namespace.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlitestore: required path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlitestore: create dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	// A single connection keeps writers serialized.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored snapshot or an error matching os.ErrNotExist.
func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM snapshots WHERE namespace = ?", namespace).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlitestore: %s: %w", namespace, os.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: select %s: %w", namespace, err)
	}
	return []byte(body), nil
}

// Save upserts the snapshot row.
func (s *Store) Save(ctx context.Context, namespace string, data []byte) error {
	if namespace == "" {
		return errors.New("sqlitestore: namespace required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (namespace, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(namespace) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		namespace, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlitestore: upsert %s: %w", namespace, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
