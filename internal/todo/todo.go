// Package todo expresses task intents (create, edit, toggle, clear) as
// record store calls. It keeps no state of its own.
package todo

import (
	"context"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Storage is the subset of the record store the model needs.
type Storage interface {
	Find(ctx context.Context, q model.Query) ([]model.Task, error)
	Create(ctx context.Context, fields model.Fields) ([]model.Task, error)
	Update(ctx context.Context, id int64, fields model.Fields) ([]model.Task, error)
	Remove(ctx context.Context, id int64) ([]model.Task, error)
	Reset(ctx context.Context) ([]model.Task, error)
}

// Model is the task facade over a Storage.
type Model struct {
	storage Storage
}

// New returns a Model backed by storage.
func New(storage Storage) *Model {
	return &Model{storage: storage}
}

// Create stores a new active task with a trimmed title. Empty titles are not
// rejected here; callers validate. Returns a one-element slice with the new task.
func (m *Model) Create(ctx context.Context, title string) ([]model.Task, error) {
	fields := model.Fields{}.
		WithTitle(strings.TrimSpace(title)).
		WithCompleted(false)
	return m.storage.Create(ctx, fields)
}

// Read returns the tasks matching q; the zero Query returns all of them.
func (m *Model) Read(ctx context.Context, q model.Query) ([]model.Task, error) {
	return m.storage.Find(ctx, q)
}

// ReadAll returns every task.
func (m *Model) ReadAll(ctx context.Context) ([]model.Task, error) {
	return m.storage.Find(ctx, model.Query{})
}

// ReadID returns the task with id, if any, as a zero- or one-element slice.
func (m *Model) ReadID(ctx context.Context, id int64) ([]model.Task, error) {
	return m.storage.Find(ctx, model.ByID(id))
}

// Update merges fields into the task with id. An unknown id changes nothing.
func (m *Model) Update(ctx context.Context, id int64, fields model.Fields) ([]model.Task, error) {
	return m.storage.Update(ctx, id, fields)
}

// Remove deletes the task with id.
func (m *Model) Remove(ctx context.Context, id int64) ([]model.Task, error) {
	return m.storage.Remove(ctx, id)
}

// RemoveAll wipes every task in the namespace.
func (m *Model) RemoveAll(ctx context.Context) ([]model.Task, error) {
	return m.storage.Reset(ctx)
}

// Count reports active, completed and total tasks.
func (m *Model) Count(ctx context.Context) (model.Counts, error) {
	all, err := m.ReadAll(ctx)
	if err != nil {
		return model.Counts{}, err
	}
	return model.Count(all), nil
}
