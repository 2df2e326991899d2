// Package diskvstore stores namespace snapshots as diskv values.
package diskvstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

const cacheSizeMax = 1024 * 1024 // 1MB

// Store wraps a diskv instance rooted at a base directory.
type Store struct {
	d *diskv.Diskv
}

// New returns a Store rooted at dir. Writes are staged in a temp directory
// under dir and renamed into place.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("diskvstore: dir required")
	}
	tmp := filepath.Join(dir, ".tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("diskvstore: mkdir: %w", err)
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     dir,
		TempDir:      tmp,
		CacheSizeMax: cacheSizeMax,
	})}, nil
}

// toKey encodes a namespace into a flat, filesystem-safe key.
func toKey(namespace string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(namespace))
}

// Load returns the stored snapshot or an error matching os.ErrNotExist.
func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, errors.New("diskvstore: namespace required")
	}
	key := toKey(namespace)
	if !s.d.Has(key) {
		return nil, fmt.Errorf("diskvstore: %s: %w", namespace, os.ErrNotExist)
	}
	b, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("diskvstore: read %s: %w", namespace, err)
	}
	return b, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, namespace string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if namespace == "" {
		return errors.New("diskvstore: namespace required")
	}
	if err := s.d.Write(toKey(namespace), data); err != nil {
		return fmt.Errorf("diskvstore: write %s: %w", namespace, err)
	}
	return nil
}

// Close is a no-op; diskv holds no open handles between calls.
func (s *Store) Close() error { return nil }
