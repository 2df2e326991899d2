// Package memstore keeps snapshots in process memory.
package memstore

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Store is a map of namespace to snapshot bytes.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Load(ctx context.Context, namespace string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[namespace]
	if !ok {
		return nil, fmt.Errorf("memstore: %s: %w", namespace, os.ErrNotExist)
	}
	return append([]byte(nil), b...), nil
}

func (s *Store) Save(ctx context.Context, namespace string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[namespace] = append([]byte(nil), data...)
	return nil
}

func (s *Store) Close() error { return nil }
