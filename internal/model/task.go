package model

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Task is the domain model for a todo entry.
// ID is assigned by the store on creation and never changes afterwards.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Snapshot is the persisted document for one namespace.
type Snapshot struct {
	Todos []Task `json:"todos"`
}

// NewSnapshot returns an empty, valid snapshot.
func NewSnapshot() Snapshot { return Snapshot{Todos: []Task{}} }

// ErrInvalidID is returned when a textual id cannot be parsed.
var ErrInvalidID = errors.New("invalid task id")

// ParseID normalizes a textual id ("42", " 42 ") to the record id type.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// Query is a flat AND of optional field equalities. The zero Query matches
// every task.
type Query struct {
	ID        *int64
	Title     *string
	Completed *bool
}

// ByID matches the task with the given id.
func ByID(id int64) Query { return Query{ID: &id} }

// ByCompleted matches tasks whose completed flag equals done.
func ByCompleted(done bool) Query { return Query{Completed: &done} }

// ByTitle matches tasks with exactly this title.
func ByTitle(title string) Query { return Query{Title: &title} }

// IsZero reports whether the query has no field constraints.
func (q Query) IsZero() bool {
	return q.ID == nil && q.Title == nil && q.Completed == nil
}

// Matches reports whether every constrained field equals the task's field.
func (q Query) Matches(t Task) bool {
	if q.ID != nil && *q.ID != t.ID {
		return false
	}
	if q.Title != nil && *q.Title != t.Title {
		return false
	}
	if q.Completed != nil && *q.Completed != t.Completed {
		return false
	}
	return true
}

// Filter returns the ordered sub-sequence of tasks matched by q.
func (q Query) Filter(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Fields is a partial update. Nil fields are left untouched.
type Fields struct {
	Title     *string
	Completed *bool
}

// WithTitle sets the title field.
func (f Fields) WithTitle(title string) Fields {
	f.Title = &title
	return f
}

// WithCompleted sets the completed field.
func (f Fields) WithCompleted(done bool) Fields {
	f.Completed = &done
	return f
}

// Apply merges the set fields into t.
func (f Fields) Apply(t *Task) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Completed != nil {
		t.Completed = *f.Completed
	}
}

// Counts summarizes a collection. Active+Completed == Total.
type Counts struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Count tallies tasks in a single pass.
func Count(tasks []Task) Counts {
	var c Counts
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
		c.Total++
	}
	return c
}

// Clone returns a copy of tasks that shares no backing array with the input.
// A nil input yields an empty, non-nil slice.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	return slices.Clone(tasks)
}
