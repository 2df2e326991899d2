// Package store keeps named collections of tasks. Each namespace is held as a
// single JSON snapshot on a Medium and every mutation replaces that snapshot
// as a whole, so a reader never observes a half-written collection.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
)

var (
	// ErrCorruptSnapshot is returned when a stored snapshot cannot be decoded.
	ErrCorruptSnapshot = errors.New("store: corrupt snapshot")
	// ErrWatchUnsupported is returned by Watch when the medium cannot report changes.
	ErrWatchUnsupported = errors.New("store: medium does not support watching")
	// ErrNamespaceEmpty is returned by Open for a blank namespace.
	ErrNamespaceEmpty = errors.New("store: namespace required")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store: closed")
)

// Medium holds raw snapshot bytes keyed by namespace.
// Load must return an error matching fs.ErrNotExist when nothing is stored.
type Medium interface {
	Load(ctx context.Context, namespace string) ([]byte, error)
	Save(ctx context.Context, namespace string, data []byte) error
	Close() error
}

// Watcher is implemented by media that can signal out-of-process changes.
type Watcher interface {
	Watch(ctx context.Context, namespace string) (<-chan struct{}, error)
}

// Store is the record store for one namespace. It is safe for concurrent use;
// each read-modify-write cycle runs under a single lock.
type Store struct {
	mu     sync.Mutex
	medium Medium
	name   string
	log    *zap.Logger
	now    func() time.Time
	lastID int64
	closed bool
	seen   [sha256.Size]byte // digest of the snapshot last read or written here
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the clock used for id assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open returns a Store for namespace, initializing its snapshot if needed.
func Open(ctx context.Context, medium Medium, namespace string, opts ...Option) (*Store, error) {
	if medium == nil {
		return nil, errors.New("store: medium required")
	}
	if namespace == "" {
		return nil, ErrNamespaceEmpty
	}
	s := &Store{
		medium: medium,
		name:   namespace,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.Named("store").With(zap.String("namespace", namespace))
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the namespace this store serves.
func (s *Store) Name() string { return s.name }

// Initialize writes an empty snapshot when none exists or the stored one is
// unreadable. It is idempotent for a valid snapshot.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.load(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrClosed):
		return err
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("creating empty snapshot")
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		s.log.Warn("recreating unreadable snapshot", zap.Error(err))
	}
	return s.write(ctx, model.NewSnapshot())
}

// Find returns the tasks matched by q in collection order. The zero Query
// returns the whole collection.
func (s *Store) Find(ctx context.Context, q model.Query) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	if q.IsZero() {
		return model.Clone(snap.Todos), nil
	}
	return q.Filter(snap.Todos), nil
}

// FindAll returns the whole collection.
func (s *Store) FindAll(ctx context.Context) ([]model.Task, error) {
	return s.Find(ctx, model.Query{})
}

// FindID is shorthand for Find(ctx, model.ByID(id)).
func (s *Store) FindID(ctx context.Context, id int64) ([]model.Task, error) {
	return s.Find(ctx, model.ByID(id))
}

// Create assigns a fresh id, appends the record and returns a one-element
// slice holding it.
func (s *Store) Create(ctx context.Context, fields model.Fields) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	t := model.Task{ID: s.nextID(snap.Todos)}
	fields.Apply(&t)
	snap.Todos = append(snap.Todos, t)
	if err := s.write(ctx, snap); err != nil {
		return nil, err
	}
	s.log.Debug("created task", zap.Int64("id", t.ID))
	return []model.Task{t}, nil
}

// Update merges fields into the record with id and returns the whole
// collection. An id that matches nothing leaves the collection untouched and
// still returns it.
func (s *Store) Update(ctx context.Context, id int64, fields model.Fields) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOf(snap.Todos, id)
	if i < 0 {
		s.log.Debug("update skipped, no such task", zap.Int64("id", id))
		return model.Clone(snap.Todos), nil
	}
	fields.Apply(&snap.Todos[i])
	if err := s.write(ctx, snap); err != nil {
		return nil, err
	}
	s.log.Debug("updated task", zap.Int64("id", id))
	return model.Clone(snap.Todos), nil
}

// Remove deletes every record with the given id and returns the survivors.
// Removing an unknown id succeeds without writing.
func (s *Store) Remove(ctx context.Context, id int64) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	kept := snap.Todos[:0]
	for _, t := range snap.Todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(snap.Todos) {
		return model.Clone(kept), nil
	}
	snap.Todos = kept
	if err := s.write(ctx, snap); err != nil {
		return nil, err
	}
	s.log.Debug("removed task", zap.Int64("id", id))
	return model.Clone(kept), nil
}

// Reset replaces the collection with an empty one.
func (s *Store) Reset(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.NewSnapshot()
	if err := s.write(ctx, snap); err != nil {
		return nil, err
	}
	s.log.Debug("reset collection")
	return snap.Todos, nil
}

// Watch reports changes made to the namespace by other writers. Signals
// caused by this Store's own writes are dropped: a notification is forwarded
// only when the stored snapshot differs from the one last read or written
// here. The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	w, ok := s.medium.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	raw, err := w.Watch(ctx, s.name)
	if err != nil {
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range raw {
			if !s.changedElsewhere(ctx) {
				continue
			}
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}()
	return out, nil
}

// changedElsewhere reports whether the stored snapshot differs from the one
// this Store last saw. Unreadable snapshots count as changed.
func (s *Store) changedElsewhere(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	data, err := s.medium.Load(ctx, s.name)
	if err != nil {
		return true
	}
	return sha256.Sum256(data) != s.seen
}

// Close releases the medium. Closing twice is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.medium.Close()
}

func (s *Store) load(ctx context.Context) (model.Snapshot, error) {
	if s.closed {
		return model.Snapshot{}, ErrClosed
	}
	data, err := s.medium.Load(ctx, s.name)
	if err != nil {
		return model.Snapshot{}, err
	}
	s.seen = sha256.Sum256(data)
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Todos == nil {
		snap.Todos = []model.Task{}
	}
	return snap, nil
}

// loadOrEmpty treats a vanished snapshot as an empty collection.
func (s *Store) loadOrEmpty(ctx context.Context) (model.Snapshot, error) {
	snap, err := s.load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewSnapshot(), nil
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load %s: %w", s.name, err)
	}
	return snap, nil
}

func (s *Store) write(ctx context.Context, snap model.Snapshot) error {
	if s.closed {
		return ErrClosed
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := s.medium.Save(ctx, s.name, b); err != nil {
		return fmt.Errorf("save %s: %w", s.name, err)
	}
	s.seen = sha256.Sum256(b)
	return nil
}

// nextID derives an id from the clock, bumped past anything already issued
// or stored so two creates within one millisecond never collide.
func (s *Store) nextID(existing []model.Task) int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for _, t := range existing {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	s.lastID = id
	return id
}

func indexOf(tasks []model.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
