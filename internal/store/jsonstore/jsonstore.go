// Package jsonstore keeps one human-readable JSON file per namespace.
// Writes go to a temp file that is synced and renamed over the target, so the
// file on disk is always a complete snapshot.
package jsonstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// ErrBadNamespace is returned for namespaces that cannot be used as file names.
var ErrBadNamespace = errors.New("jsonstore: namespace is not a valid file name")

// Store is a directory of snapshot files.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("jsonstore: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the snapshot file for namespace.
func (s *Store) Path(namespace string) (string, error) {
	if namespace == "" || namespace == "." || namespace == ".." ||
		strings.ContainsAny(namespace, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadNamespace, namespace)
	}
	return filepath.Join(s.dir, namespace+fileExt), nil
}

// Load reads the snapshot bytes. A missing file yields an error matching
// os.ErrNotExist.
func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.Path(namespace)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return b, nil
}

// Save atomically replaces the snapshot file.
func (s *Store) Save(ctx context.Context, namespace string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.Path(namespace)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+namespace+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}

// Close is a no-op; files are not held open between calls.
func (s *Store) Close() error { return nil }
