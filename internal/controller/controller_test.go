package controller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/todo"
)

type recorder struct {
	got []controller.Directive
}

func (r *recorder) Render(d controller.Directive) { r.got = append(r.got, d) }

func (r *recorder) reset() { r.got = nil }

func (r *recorder) names() []string {
	out := make([]string, 0, len(r.got))
	for _, d := range r.got {
		out = append(out, d.Name())
	}
	return out
}

// last returns the most recent directive of type T.
func last[T controller.Directive](r *recorder) (T, bool) {
	for i := len(r.got) - 1; i >= 0; i-- {
		if d, ok := r.got[i].(T); ok {
			return d, true
		}
	}
	var zero T
	return zero, false
}

type fixture struct {
	ctx   context.Context
	tasks *todo.Model
	view  *recorder
	c     *controller.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return time.UnixMilli(1000) }
	s, err := store.Open(ctx, memstore.New(), "todos-test", store.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	tasks := todo.New(s)
	view := &recorder{}
	return &fixture{ctx: ctx, tasks: tasks, view: view, c: controller.New(tasks, view)}
}

func (f *fixture) seed(t *testing.T, title string, done bool) model.Task {
	t.Helper()
	got, err := f.tasks.Create(f.ctx, title)
	require.NoError(t, err)
	if done {
		_, err = f.tasks.Update(f.ctx, got[0].ID, model.Fields{}.WithCompleted(true))
		require.NoError(t, err)
		got[0].Completed = true
	}
	return got[0]
}

func TestSetViewFirstPassRendersEverything(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", false)

	require.NoError(t, f.c.SetView(f.ctx, ""))

	assert.Equal(t, []string{
		"updateElementCount",
		"clearCompletedButton",
		"toggleAll",
		"contentBlockVisibility",
		"showEntries",
		"setFilter",
	}, f.view.names())
	sf, _ := last[controller.SetFilter](f.view)
	assert.Equal(t, controller.All, sf.Route)
}

func TestSetViewActiveShowsOnlyActive(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)
	f.seed(t, "b", true)

	require.NoError(t, f.c.SetView(f.ctx, "#/active"))

	entries, ok := last[controller.ShowEntries](f.view)
	require.True(t, ok)
	assert.Equal(t, []model.Task{a}, entries.Tasks)
	count, _ := last[controller.UpdateElementCount](f.view)
	assert.Equal(t, 1, count.Active)
	btn, _ := last[controller.ClearCompletedButton](f.view)
	assert.Equal(t, controller.ClearCompletedButton{Completed: 1, Visible: true}, btn)
	assert.Equal(t, controller.Active, f.c.ActiveRoute())
}

func TestUnknownRouteFallsBackToAll(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", false)
	require.NoError(t, f.c.SetView(f.ctx, "#/completed"))

	require.NoError(t, f.c.SetView(f.ctx, "#/nowhere"))

	assert.Equal(t, controller.All, f.c.ActiveRoute())
	entries, _ := last[controller.ShowEntries](f.view)
	assert.Len(t, entries.Tasks, 1)
}

func TestAddItemForcesRender(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetView(f.ctx, "#/"))
	f.view.reset()

	require.NoError(t, f.c.AddItem(f.ctx, "  Buy milk  "))

	assert.Equal(t, "clearNewTodo", f.view.names()[0])
	entries, ok := last[controller.ShowEntries](f.view)
	require.True(t, ok)
	require.Len(t, entries.Tasks, 1)
	assert.Equal(t, "Buy milk", entries.Tasks[0].Title)
	vis, _ := last[controller.ContentBlockVisibility](f.view)
	assert.True(t, vis.Visible)
}

func TestAddBlankItemIsIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.c.AddItem(f.ctx, "   "))

	assert.Empty(t, f.view.got)
	all, err := f.tasks.ReadAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestToggleOnAllSkipsListRebuild(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)
	require.NoError(t, f.c.SetView(f.ctx, "#/"))
	f.view.reset()

	require.NoError(t, f.c.ToggleComplete(f.ctx, a.ID, true))

	assert.NotContains(t, f.view.names(), "showEntries")
	assert.Equal(t, controller.ElementComplete{ID: a.ID, Completed: true}, f.view.got[0])
	toggle, _ := last[controller.ToggleAll](f.view)
	assert.True(t, toggle.Checked)
}

func TestToggleOnActiveRebuildsList(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)
	b := f.seed(t, "b", false)
	require.NoError(t, f.c.SetView(f.ctx, "#/active"))
	f.view.reset()

	require.NoError(t, f.c.ToggleComplete(f.ctx, a.ID, true))

	entries, ok := last[controller.ShowEntries](f.view)
	require.True(t, ok)
	assert.Equal(t, []model.Task{b}, entries.Tasks)
}

func TestEditItemAndCancel(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)

	require.NoError(t, f.c.EditItem(f.ctx, a.ID))
	require.NoError(t, f.c.EditItemCancel(f.ctx, a.ID))

	assert.Equal(t, []controller.Directive{
		controller.EditItem{ID: a.ID, Title: "a"},
		controller.EditItemDone{ID: a.ID, Title: "a"},
	}, f.view.got)
}

func TestEditItemMissingIsNoop(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.c.EditItem(f.ctx, 42))
	require.NoError(t, f.c.EditItemCancel(f.ctx, 42))

	assert.Empty(t, f.view.got)
}

func TestEditItemSaveTrims(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)

	require.NoError(t, f.c.EditItemSave(f.ctx, a.ID, "  renamed "))

	assert.Equal(t, []controller.Directive{controller.EditItemDone{ID: a.ID, Title: "renamed"}}, f.view.got)
	got, err := f.tasks.ReadID(f.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got[0].Title)
}

func TestEditItemSaveBlankRemoves(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)

	require.NoError(t, f.c.EditItemSave(f.ctx, a.ID, "   "))

	assert.Equal(t, controller.RemoveItem{ID: a.ID}, f.view.got[0])
	all, err := f.tasks.ReadAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	vis, _ := last[controller.ContentBlockVisibility](f.view)
	assert.False(t, vis.Visible)
}

func TestRemoveCompletedItems(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)
	b := f.seed(t, "b", true)
	c := f.seed(t, "c", true)
	require.NoError(t, f.c.SetView(f.ctx, "#/"))
	f.view.reset()

	require.NoError(t, f.c.RemoveCompletedItems(f.ctx))

	assert.Equal(t, controller.RemoveItem{ID: b.ID}, f.view.got[0])
	assert.Equal(t, controller.RemoveItem{ID: c.ID}, f.view.got[1])
	count := 0
	for _, n := range f.view.names() {
		if n == "updateElementCount" {
			count++
		}
	}
	assert.Equal(t, 1, count, "one refresh for the whole batch")

	all, err := f.tasks.ReadAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{a}, all)
	btn, _ := last[controller.ClearCompletedButton](f.view)
	assert.False(t, btn.Visible)
}

func TestToggleAll(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", false)
	f.seed(t, "b", true)
	f.seed(t, "c", false)

	require.NoError(t, f.c.ToggleAll(f.ctx, true))

	n, err := f.tasks.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Counts{Active: 0, Completed: 3, Total: 3}, n)
	var toggled int
	for _, d := range f.view.got {
		if _, ok := d.(controller.ElementComplete); ok {
			toggled++
		}
	}
	assert.Equal(t, 2, toggled)

	f.view.reset()
	require.NoError(t, f.c.ToggleAll(f.ctx, false))
	n, err = f.tasks.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n.Active)
	toggle, _ := last[controller.ToggleAll](f.view)
	assert.False(t, toggle.Checked)
}

func TestRefreshAlwaysRendersList(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.c.SetView(f.ctx, "#/"))
	f.seed(t, "from elsewhere", false)
	f.view.reset()

	require.NoError(t, f.c.Refresh(f.ctx))

	entries, ok := last[controller.ShowEntries](f.view)
	require.True(t, ok)
	assert.Len(t, entries.Tasks, 1)
}

func TestViewFunc(t *testing.T) {
	var got controller.Directive
	v := controller.ViewFunc(func(d controller.Directive) { got = d })
	v.Render(controller.ClearNewTodo{})
	assert.Equal(t, controller.ClearNewTodo{}, got)
}

func TestCommandsOnMissingIDZeroChangeNothing(t *testing.T) {
	f := newFixture(t)
	a := f.seed(t, "a", false)

	_, err := f.tasks.Update(f.ctx, 0, model.Fields{}.WithCompleted(true))
	require.NoError(t, err)
	require.NoError(t, f.c.ToggleComplete(f.ctx, 0, true))
	require.NoError(t, f.c.EditItemSave(f.ctx, 0, "x"))
	require.NoError(t, f.c.RemoveItem(f.ctx, 0))

	all, err := f.tasks.ReadAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{a}, all)
}
