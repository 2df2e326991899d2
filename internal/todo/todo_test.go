package todo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/todo"
)

func newModel(t *testing.T) *todo.Model {
	t.Helper()
	s, err := store.Open(context.Background(), memstore.New(), "todos")
	require.NoError(t, err)
	return todo.New(s)
}

func TestCreateTrimsAndDefaultsToActive(t *testing.T) {
	ctx := context.Background()
	m := newModel(t)

	got, err := m.Create(ctx, "  Buy milk  ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Buy milk", got[0].Title)
	assert.False(t, got[0].Completed)
	assert.NotZero(t, got[0].ID)

	all, err := m.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateDoesNotValidate(t *testing.T) {
	got, err := newModel(t).Create(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Title)
}

func TestReadVariants(t *testing.T) {
	ctx := context.Background()
	m := newModel(t)
	a, err := m.Create(ctx, "A")
	require.NoError(t, err)
	_, err = m.Create(ctx, "B")
	require.NoError(t, err)

	all, err := m.Read(ctx, model.Query{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := m.ReadID(ctx, a[0].ID)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "A", one[0].Title)

	none, err := m.ReadID(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCountAfterToggle(t *testing.T) {
	ctx := context.Background()
	m := newModel(t)
	a, err := m.Create(ctx, "A")
	require.NoError(t, err)
	_, err = m.Create(ctx, "B")
	require.NoError(t, err)

	_, err = m.Update(ctx, a[0].ID, model.Fields{}.WithCompleted(true))
	require.NoError(t, err)

	c, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{Active: 1, Completed: 1, Total: 2}, c)
}

func TestUpdateMissingIDStillReturnsCollection(t *testing.T) {
	ctx := context.Background()
	m := newModel(t)
	_, err := m.Create(ctx, "A")
	require.NoError(t, err)

	for _, id := range []int64{12345, 0} {
		got, err := m.Update(ctx, id, model.Fields{}.WithTitle("nope"))
		require.NoError(t, err)
		require.Len(t, got, 1, "id %d", id)
		assert.Equal(t, "A", got[0].Title)
	}
}

func TestRemoveAndRemoveAll(t *testing.T) {
	ctx := context.Background()
	m := newModel(t)
	a, err := m.Create(ctx, "A")
	require.NoError(t, err)
	_, err = m.Create(ctx, "B")
	require.NoError(t, err)

	left, err := m.Remove(ctx, a[0].ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "B", left[0].Title)

	left, err = m.RemoveAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, left)

	c, err := m.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{}, c)
}
