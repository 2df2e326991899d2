package ui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/model"
)

// Screen is the view state built from controller directives. It implements
// controller.View and is not safe for concurrent use.
type Screen struct {
	Entries      []model.Task
	Active       int
	Completed    int
	ClearVisible bool
	AllChecked   bool
	Visible      bool
	Route        controller.Route

	// Editing is the id in edit mode, zero when none.
	Editing   int64
	EditTitle string
}

// NewScreen returns an empty screen on the All route.
func NewScreen() *Screen {
	return &Screen{Route: controller.All}
}

// Render applies d to the screen.
func (s *Screen) Render(d controller.Directive) {
	switch d := d.(type) {
	case controller.ShowEntries:
		s.Entries = model.Clone(d.Tasks)
	case controller.RemoveItem:
		if i := s.index(d.ID); i >= 0 {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
		}
		if s.Editing == d.ID {
			s.Editing, s.EditTitle = 0, ""
		}
	case controller.ElementComplete:
		if i := s.index(d.ID); i >= 0 {
			s.Entries[i].Completed = d.Completed
		}
	case controller.EditItem:
		s.Editing, s.EditTitle = d.ID, d.Title
	case controller.EditItemDone:
		if i := s.index(d.ID); i >= 0 {
			s.Entries[i].Title = d.Title
		}
		if s.Editing == d.ID {
			s.Editing, s.EditTitle = 0, ""
		}
	case controller.UpdateElementCount:
		s.Active = d.Active
	case controller.ClearCompletedButton:
		s.Completed, s.ClearVisible = d.Completed, d.Visible
	case controller.ToggleAll:
		s.AllChecked = d.Checked
	case controller.ContentBlockVisibility:
		s.Visible = d.Visible
	case controller.SetFilter:
		s.Route = d.Route
	case controller.ClearNewTodo:
	}
}

func (s *Screen) index(id int64) int {
	for i, t := range s.Entries {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Footer is the counter, filter tabs and clear-completed label on one line.
func (s *Screen) Footer() string {
	t := Current()
	tabs := make([]string, 0, 3)
	for _, r := range []controller.Route{controller.All, controller.Active, controller.Completed} {
		if r == s.Route {
			tabs = append(tabs, C(t.Accent, "["+string(r)+"]"))
		} else {
			tabs = append(tabs, C(t.Muted, string(r)))
		}
	}
	parts := []string{ItemCounter(s.Active), strings.Join(tabs, " ")}
	if s.ClearVisible {
		parts = append(parts, C(t.Pending, ClearCompletedLabel(s.Completed)))
	}
	return strings.Join(parts, "   ")
}

// Lines renders the screen for Panel.
func (s *Screen) Lines() []string {
	t := Current()
	total := s.Active + s.Completed
	toggle := t.BoxUnchecked
	if s.AllChecked && total > 0 {
		toggle = t.BoxChecked
	}
	lines := []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			C(t.Title, "Todos"),
			C(t.Success, t.SymDone), s.Completed,
			C(t.Pending, t.SymUnchecked), s.Active,
			C(t.Accent, "Total"), total,
		),
		C(t.Muted, ProgressBar(s.Completed, total, 28)),
		"",
	}
	if !s.Visible {
		lines = append(lines, C(t.Muted, "no items"), "")
		return append(lines, C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	}
	lines = append(lines, C(t.Muted, toggle+" mark all as complete"))
	lines = append(lines, EntryLines(s.Entries)...)
	lines = append(lines, "", s.Footer())
	return lines
}

// EntryLines renders one line per task with its id.
func EntryLines(tasks []model.Task) []string {
	t := Current()
	if len(tasks) == 0 {
		return []string{C(t.Muted, "(none)")}
	}
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		box, color := t.BoxUnchecked, t.Muted
		if task.Completed {
			box, color = t.BoxChecked, t.Success
		}
		title := task.Title
		if r := []rune(title); len(r) > 80 {
			title = string(r[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s", Dim(fmt.Sprintf("%13d", task.ID)), C(color, box), title))
	}
	return out
}
