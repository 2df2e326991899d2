package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			if err := a.ctrl.AddItem(cmd.Context(), title); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ls [all|active|completed]",
		Short:     "List tasks, optionally filtered",
		Args:      usageArgs(cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs)),
		ValidArgs: []string{"all", "active", "completed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := "#/"
			if len(args) == 1 {
				hash += args[0]
			}
			if err := a.ctrl.SetView(cmd.Context(), hash); err != nil {
				return err
			}
			ui.Panel(cmd.OutOrStdout(), a.screen.Lines())
			return nil
		},
	}
}

func (a *app) doneCmd(name string, completed bool) *cobra.Command {
	short := "Mark a task completed"
	if !completed {
		short = "Mark a task active again"
	}
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.ctrl.ToggleComplete(cmd.Context(), id, completed); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), name)
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Rename a task; a blank title removes it",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			if err := a.ctrl.EditItemSave(cmd.Context(), id, title); err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				ui.OK(cmd.OutOrStdout(), "removed")
			} else {
				ui.OK(cmd.OutOrStdout(), "updated")
			}
			return nil
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.lookup(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.ctrl.RemoveItem(cmd.Context(), id); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed task",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.tasks.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.ctrl.RemoveCompletedItems(cmd.Context()); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("cleared %d", n.Completed))
			return nil
		},
	}
}

func (a *app) toggleAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-all",
		Short: "Complete every task, or reopen them all when all are complete",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.tasks.Count(cmd.Context())
			if err != nil {
				return err
			}
			completed := n.Completed != n.Total
			if err := a.ctrl.ToggleAll(cmd.Context(), completed); err != nil {
				return err
			}
			if completed {
				ui.OK(cmd.OutOrStdout(), "all completed")
			} else {
				ui.OK(cmd.OutOrStdout(), "all active")
			}
			return nil
		},
	}
}

func (a *app) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every task in the namespace",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.tasks.RemoveAll(cmd.Context()); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "reset")
			return nil
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	var route string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			opts := []tui.Option{tui.WithLogger(a.log), tui.WithRoute("#/" + route)}
			changes, err := a.store.Watch(ctx)
			switch {
			case err == nil:
				opts = append(opts, tui.WithChanges(changes))
			case errors.Is(err, store.ErrWatchUnsupported):
				a.log.Debug("live reload unavailable for backend")
			default:
				return err
			}
			return tui.Run(ctx, a.tasks, opts...)
		},
	}
	cmd.Flags().StringVar(&route, "filter", "", "initial filter: active or completed")
	return cmd
}

// lookup parses id and reports a usage error when no task has it.
func (a *app) lookup(cmd *cobra.Command, arg string) (int64, error) {
	id, err := model.ParseID(arg)
	if err != nil {
		return 0, err
	}
	found, err := a.tasks.ReadID(cmd.Context(), id)
	if err != nil {
		return 0, err
	}
	if len(found) == 0 {
		return 0, usagef("no task with id %d (run `todo ls` to see ids)", id)
	}
	return id, nil
}
