package controller

import "github.com/Makepad-fr/tada/internal/model"

// Directive is a fire-and-forget instruction for the presentation layer.
type Directive interface {
	Name() string
}

// View receives render directives. Implementations must not call back into
// the controller from Render.
type View interface {
	Render(d Directive)
}

// ViewFunc adapts a function to View.
type ViewFunc func(Directive)

func (f ViewFunc) Render(d Directive) { f(d) }

type (
	// ShowEntries replaces the whole visible item list.
	ShowEntries struct{ Tasks []model.Task }
	// ClearNewTodo empties the new-item input.
	ClearNewTodo struct{}
	// EditItem puts one item in edit mode.
	EditItem struct {
		ID    int64
		Title string
	}
	// EditItemDone leaves edit mode showing Title.
	EditItemDone struct {
		ID    int64
		Title string
	}
	// RemoveItem drops one item from the visible list.
	RemoveItem struct{ ID int64 }
	// ElementComplete updates one item's completed state.
	ElementComplete struct {
		ID        int64
		Completed bool
	}
	// UpdateElementCount sets the "items left" counter.
	UpdateElementCount struct{ Active int }
	// ClearCompletedButton sets the clear-completed control.
	ClearCompletedButton struct {
		Completed int
		Visible   bool
	}
	// ToggleAll sets the toggle-all checkbox.
	ToggleAll struct{ Checked bool }
	// ContentBlockVisibility shows or hides the list and footer.
	ContentBlockVisibility struct{ Visible bool }
	// SetFilter highlights the active filter.
	SetFilter struct{ Route Route }
)

func (ShowEntries) Name() string            { return "showEntries" }
func (ClearNewTodo) Name() string           { return "clearNewTodo" }
func (EditItem) Name() string               { return "editItem" }
func (EditItemDone) Name() string           { return "editItemDone" }
func (RemoveItem) Name() string             { return "removeItem" }
func (ElementComplete) Name() string        { return "elementComplete" }
func (UpdateElementCount) Name() string     { return "updateElementCount" }
func (ClearCompletedButton) Name() string   { return "clearCompletedButton" }
func (ToggleAll) Name() string              { return "toggleAll" }
func (ContentBlockVisibility) Name() string { return "contentBlockVisibility" }
func (SetFilter) Name() string              { return "setFilter" }
