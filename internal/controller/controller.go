// Package controller owns the view filter and coordinates task commands with
// the presentation layer. A Controller is driven from a single goroutine.
package controller

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/model"
)

// Tasks is the task model the controller drives.
type Tasks interface {
	Create(ctx context.Context, title string) ([]model.Task, error)
	Read(ctx context.Context, q model.Query) ([]model.Task, error)
	ReadID(ctx context.Context, id int64) ([]model.Task, error)
	Update(ctx context.Context, id int64, fields model.Fields) ([]model.Task, error)
	Remove(ctx context.Context, id int64) ([]model.Task, error)
	Count(ctx context.Context) (model.Counts, error)
}

// Controller is the filter/sync state machine.
type Controller struct {
	tasks Tasks
	view  View
	log   *zap.Logger

	activeRoute     Route
	lastActiveRoute Route // empty until the first filter pass
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Controller showing All.
func New(tasks Tasks, view View, opts ...Option) *Controller {
	c := &Controller{
		tasks:       tasks,
		view:        view,
		log:         zap.NewNop(),
		activeRoute: All,
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.Named("controller")
	return c
}

// ActiveRoute returns the current filter.
func (c *Controller) ActiveRoute() Route { return c.activeRoute }

// SetView switches the filter from a location hash and refreshes the view.
func (c *Controller) SetView(ctx context.Context, hash string) error {
	return c.updateFilterState(ctx, ParseRoute(hash))
}

// Refresh re-renders counts and the current list, e.g. after the collection
// changed outside this controller.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.filter(ctx, true)
}

// ShowAll renders every task.
func (c *Controller) ShowAll(ctx context.Context) error {
	return c.show(ctx, model.Query{})
}

// ShowActive renders tasks that are not completed.
func (c *Controller) ShowActive(ctx context.Context) error {
	return c.show(ctx, model.ByCompleted(false))
}

// ShowCompleted renders completed tasks.
func (c *Controller) ShowCompleted(ctx context.Context) error {
	return c.show(ctx, model.ByCompleted(true))
}

// AddItem creates a task. Blank titles are ignored.
func (c *Controller) AddItem(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if _, err := c.tasks.Create(ctx, title); err != nil {
		return err
	}
	c.view.Render(ClearNewTodo{})
	return c.filter(ctx, true)
}

// EditItem enters edit mode for id with its stored title.
func (c *Controller) EditItem(ctx context.Context, id int64) error {
	found, err := c.tasks.ReadID(ctx, id)
	if err != nil || len(found) == 0 {
		return err
	}
	c.view.Render(EditItem{ID: id, Title: found[0].Title})
	return nil
}

// EditItemSave commits an edit. A title that is blank after trimming removes
// the task instead.
func (c *Controller) EditItemSave(ctx context.Context, id int64, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return c.RemoveItem(ctx, id)
	}
	if _, err := c.tasks.Update(ctx, id, model.Fields{}.WithTitle(title)); err != nil {
		return err
	}
	c.view.Render(EditItemDone{ID: id, Title: title})
	return nil
}

// EditItemCancel leaves edit mode showing the stored title.
func (c *Controller) EditItemCancel(ctx context.Context, id int64) error {
	found, err := c.tasks.ReadID(ctx, id)
	if err != nil || len(found) == 0 {
		return err
	}
	c.view.Render(EditItemDone{ID: id, Title: found[0].Title})
	return nil
}

// RemoveItem deletes id and refreshes the view.
func (c *Controller) RemoveItem(ctx context.Context, id int64) error {
	if err := c.remove(ctx, id); err != nil {
		return err
	}
	return c.filter(ctx, false)
}

// RemoveCompletedItems deletes every completed task, refreshing once.
func (c *Controller) RemoveCompletedItems(ctx context.Context) error {
	done, err := c.tasks.Read(ctx, model.ByCompleted(true))
	if err != nil {
		return err
	}
	for _, t := range done {
		if err := c.remove(ctx, t.ID); err != nil {
			return err
		}
	}
	return c.filter(ctx, false)
}

// ToggleComplete sets the completed flag of id and refreshes the view.
func (c *Controller) ToggleComplete(ctx context.Context, id int64, completed bool) error {
	return c.toggle(ctx, id, completed, false)
}

// ToggleAll sets every task to completed, refreshing once.
func (c *Controller) ToggleAll(ctx context.Context, completed bool) error {
	pending, err := c.tasks.Read(ctx, model.ByCompleted(!completed))
	if err != nil {
		return err
	}
	for _, t := range pending {
		if err := c.toggle(ctx, t.ID, completed, true); err != nil {
			return err
		}
	}
	return c.filter(ctx, false)
}

// toggle persists the flag; silent skips the refresh for bulk callers.
func (c *Controller) toggle(ctx context.Context, id int64, completed, silent bool) error {
	if _, err := c.tasks.Update(ctx, id, model.Fields{}.WithCompleted(completed)); err != nil {
		return err
	}
	c.view.Render(ElementComplete{ID: id, Completed: completed})
	if silent {
		return nil
	}
	return c.filter(ctx, false)
}

func (c *Controller) remove(ctx context.Context, id int64) error {
	if _, err := c.tasks.Remove(ctx, id); err != nil {
		return err
	}
	c.view.Render(RemoveItem{ID: id})
	c.log.Info("removed task", zap.Int64("id", id))
	return nil
}

func (c *Controller) updateFilterState(ctx context.Context, r Route) error {
	c.activeRoute = r
	if err := c.filter(ctx, false); err != nil {
		return err
	}
	c.view.Render(SetFilter{Route: r})
	return nil
}

// filter refreshes the footer and, when needed, the item list.
//
// The list is rebuilt when forced, when the route changed since the last
// pass, or when a narrowing route is active (a toggle may move an item out of
// it). Staying on All relies on the per-item directives already sent.
func (c *Controller) filter(ctx context.Context, force bool) error {
	if err := c.updateCount(ctx); err != nil {
		return err
	}
	if force || c.lastActiveRoute != c.activeRoute || c.activeRoute != All {
		var err error
		switch c.activeRoute {
		case Active:
			err = c.ShowActive(ctx)
		case Completed:
			err = c.ShowCompleted(ctx)
		default:
			err = c.ShowAll(ctx)
		}
		if err != nil {
			return err
		}
	}
	c.lastActiveRoute = c.activeRoute
	return nil
}

func (c *Controller) updateCount(ctx context.Context) error {
	n, err := c.tasks.Count(ctx)
	if err != nil {
		return err
	}
	c.view.Render(UpdateElementCount{Active: n.Active})
	c.view.Render(ClearCompletedButton{Completed: n.Completed, Visible: n.Completed > 0})
	c.view.Render(ToggleAll{Checked: n.Completed == n.Total})
	c.view.Render(ContentBlockVisibility{Visible: n.Total > 0})
	return nil
}

func (c *Controller) show(ctx context.Context, q model.Query) error {
	tasks, err := c.tasks.Read(ctx, q)
	if err != nil {
		return err
	}
	c.view.Render(ShowEntries{Tasks: tasks})
	return nil
}
