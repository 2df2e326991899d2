// Package tui is the interactive presentation. Key presses become controller
// commands and the directives the controller sends back are folded into a
// ui.Screen that the list renders.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// listItem adapts a task to bubbles/list.Item
type listItem struct {
	task model.Task
}

func (i listItem) Title() string       { return i.task.Title }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Title }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box := mutedStyle.Render(boxUnchecked)
	text := it.task.Title
	if it.task.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

// view records ClearNewTodo so the input can be reset once the add landed.
type view struct {
	*ui.Screen
	cleared bool
}

func (v *view) Render(d controller.Directive) {
	if _, ok := d.(controller.ClearNewTodo); ok {
		v.cleared = true
	}
	v.Screen.Render(d)
}

type changedMsg struct{}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	clearBind    = key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear completed"))
	allBind      = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all"))
	routeBind    = key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1/2/3", "all/active/completed"))
	nextTabBind  = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter"))
	quitBind     = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
	routeHashes  = map[string]string{"1": controller.All.Hash(), "2": controller.Active.Hash(), "3": controller.Completed.Hash()}
	nextRouteFor = map[controller.Route]controller.Route{
		controller.All:       controller.Active,
		controller.Active:    controller.Completed,
		controller.Completed: controller.All,
	}
)

// Option configures the TUI.
type Option func(*options)

type options struct {
	log     *zap.Logger
	changes <-chan struct{}
	hash    string
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithChanges reloads the list whenever ch fires.
func WithChanges(ch <-chan struct{}) Option {
	return func(o *options) { o.changes = ch }
}

// WithRoute selects the initial filter from a location hash.
func WithRoute(hash string) Option {
	return func(o *options) { o.hash = hash }
}

// Model is the Bubble Tea model.
type Model struct {
	ctx     context.Context
	ctrl    *controller.Controller
	view    *view
	log     *zap.Logger
	changes <-chan struct{}

	list list.Model
	ti   textinput.Model

	adding  bool
	editing bool
	editID  int64
	status  string

	width, height int
}

// New builds the model and renders the initial route.
func New(ctx context.Context, tasks controller.Tasks, opts ...Option) (Model, error) {
	o := options{log: zap.NewNop(), hash: controller.All.Hash()}
	for _, opt := range opts {
		opt(&o)
	}
	v := &view{Screen: ui.NewScreen()}

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.DisableQuitKeybindings()
	extra := func() []key.Binding {
		return []key.Binding{addBind, editBind, toggleBind, deleteBind, clearBind, allBind, routeBind, quitBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := Model{
		ctx:     ctx,
		ctrl:    controller.New(tasks, v, controller.WithLogger(o.log)),
		view:    v,
		log:     o.log.Named("tui"),
		changes: o.changes,
		list:    l,
		ti:      ti,
		width:   80,
		height:  24,
	}
	if err := m.ctrl.SetView(ctx, o.hash); err != nil {
		return Model{}, err
	}
	m.sync()
	m.resize()
	return m, nil
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, tasks controller.Tasks, opts ...Option) error {
	m, err := New(ctx, tasks, opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// Screen exposes the rendered state.
func (m Model) Screen() *ui.Screen { return m.view.Screen }

func (m Model) Init() tea.Cmd { return m.waitForChange() }

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case changedMsg:
		m.log.Debug("snapshot changed on disk")
		m.apply(m.ctrl.Refresh(m.ctx))
		return m, m.waitForChange()
	}

	if m.adding {
		return m.updateAdding(msg)
	}
	if m.editing {
		return m.updateEditing(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		m.status = ""
		switch {
		case key.Matches(km, quitBind):
			return m, tea.Quit
		case key.Matches(km, addBind):
			m.adding = true
			m.ti.SetValue("")
			m.ti.Placeholder = "What needs to be done?"
			m.resize()
			cmd := m.ti.Focus()
			return m, cmd
		case key.Matches(km, editBind):
			if t, ok := m.selected(); ok {
				m.apply(m.ctrl.EditItem(m.ctx, t.ID))
				if m.view.Editing == t.ID {
					m.editing = true
					m.editID = t.ID
					m.ti.SetValue(m.view.EditTitle)
					m.ti.CursorEnd()
					m.ti.Placeholder = "Edit item title..."
					m.resize()
					cmd := m.ti.Focus()
					return m, cmd
				}
			}
			return m, nil
		case key.Matches(km, toggleBind):
			if t, ok := m.selected(); ok {
				m.apply(m.ctrl.ToggleComplete(m.ctx, t.ID, !t.Completed))
			}
			return m, nil
		case key.Matches(km, deleteBind):
			if t, ok := m.selected(); ok {
				m.apply(m.ctrl.RemoveItem(m.ctx, t.ID))
			}
			return m, nil
		case key.Matches(km, clearBind):
			m.apply(m.ctrl.RemoveCompletedItems(m.ctx))
			return m, nil
		case key.Matches(km, allBind):
			m.apply(m.ctrl.ToggleAll(m.ctx, !m.view.AllChecked))
			return m, nil
		case key.Matches(km, routeBind):
			m.apply(m.ctrl.SetView(m.ctx, routeHashes[km.String()]))
			return m, nil
		case key.Matches(km, nextTabBind):
			m.apply(m.ctrl.SetView(m.ctx, nextRouteFor[m.view.Route].Hash()))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.view.cleared = false
			m.apply(m.ctrl.AddItem(m.ctx, m.ti.Value()))
			if !m.view.cleared {
				if m.status == "" {
					m.status = "Title cannot be empty"
				}
				return m, nil
			}
			m.view.cleared = false
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			m.apply(m.ctrl.EditItemSave(m.ctx, m.editID, m.ti.Value()))
			m.closeInput()
			return m, nil
		case "esc":
			m.apply(m.ctrl.EditItemCancel(m.ctx, m.editID))
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.adding, m.editing, m.editID = false, false, 0
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

// apply records a controller failure and redraws the list from the screen.
func (m *Model) apply(err error) {
	if err != nil {
		m.status = err.Error()
		m.log.Error("command failed", zap.Error(err))
	}
	m.sync()
}

func (m *Model) sync() {
	items := make([]list.Item, 0, len(m.view.Entries))
	for _, t := range m.view.Entries {
		items = append(items, listItem{task: t})
	}
	m.list.SetItems(items)

	s := m.view.Screen
	toggle := boxUnchecked
	if s.AllChecked && s.Active+s.Completed > 0 {
		toggle = boxChecked
	}
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d  %s",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), s.Completed,
		pendingStyle.Render("•"), s.Active,
		accentStyle.Render("Total"), s.Active+s.Completed,
		mutedStyle.Render(toggle+" all"),
	)
}

func (m Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m *Model) resize() {
	h := m.height - 5
	if m.adding || m.editing {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) footer() string {
	s := m.view.Screen
	tabs := make([]string, 0, 3)
	for _, r := range []controller.Route{controller.All, controller.Active, controller.Completed} {
		if r == s.Route {
			tabs = append(tabs, tabStyle.Render(string(r)))
		} else {
			tabs = append(tabs, mutedStyle.Render(string(r)))
		}
	}
	parts := []string{ui.ItemCounter(s.Active), strings.Join(tabs, " ")}
	if s.ClearVisible {
		parts = append(parts, pendingStyle.Render(ui.ClearCompletedLabel(s.Completed)))
	}
	return strings.Join(parts, "   ")
}

func (m Model) View() string {
	content := m.list.View()
	if m.view.Visible {
		content += "\n" + m.footer()
	}
	if m.adding || m.editing {
		title := "Add new item"
		if m.editing {
			title = "Edit item"
		}
		content += "\n" + inputBar(title+"\n"+m.ti.View())
	}
	if m.status != "" {
		content += "\n" + errorStyle.Render(m.status)
	}
	return panelString(content)
}
