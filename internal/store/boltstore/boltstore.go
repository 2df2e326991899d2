// Package boltstore stores namespace snapshots in a bbolt bucket.
package boltstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const snapshotsBucket = "tada-snapshots"

// Store is a bbolt database holding one key per namespace.
type Store struct {
	db *bolt.DB
}

// New opens (or creates) the database at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("boltstore: required path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("boltstore: create dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, berr := tx.CreateBucketIfNotExists([]byte(snapshotsBucket))
		return berr
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("boltstore: init bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns a copy of the stored snapshot or an error matching os.ErrNotExist.
func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotsBucket))
		if b == nil {
			return errors.New("boltstore: bucket missing")
		}
		v := b.Get([]byte(namespace))
		if v == nil {
			return fmt.Errorf("boltstore: %s: %w", namespace, os.ErrNotExist)
		}
		// v is only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Save replaces the snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, namespace string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if namespace == "" {
		return errors.New("boltstore: namespace required")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(snapshotsBucket))
		if b == nil {
			return errors.New("boltstore: bucket missing")
		}
		return b.Put([]byte(namespace), data)
	})
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
