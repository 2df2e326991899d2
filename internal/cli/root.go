// Package cli is the todo command tree. Run returns the process exit code:
// 0 ok, 1 runtime error, 2 usage error.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/todo"
	"github.com/Makepad-fr/tada/internal/ui"
)

// usageError marks errors caused by bad invocation.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error { return usageError{fmt.Errorf(format, a...)} }

// usageArgs turns cobra argument validation failures into usage errors.
func usageArgs(p cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := p(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	namespace string
	noColor   bool
}

// app is the composition root shared by every subcommand.
type app struct {
	flags rootFlags

	cfg    *config.Config
	log    *zap.Logger
	store  *store.Store
	tasks  *todo.Model
	screen *ui.Screen
	ctrl   *controller.Controller
}

// Run executes the command line args and returns the exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil && cerr != nil {
		err = fmt.Errorf("close store: %w", cerr)
	}
	switch {
	case err == nil:
		return 0
	case errors.As(err, new(usageError)), errors.Is(err, config.ErrInvalid), errors.Is(err, model.ErrInvalidID):
		ui.Fail(stderr, err.Error())
		fmt.Fprintln(stderr, ui.C(ui.Current().Muted, "Hint: run `todo --help` for usage"))
		return 2
	default:
		ui.Fail(stderr, err.Error())
		return 1
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny task list",
		Long: `todo keeps a list of tasks in a local store.

Use the subcommands for one-off edits or "todo tui" for the interactive list.`,
		Example: `  todo add "Buy milk"
  todo ls active
  todo done 1718000000000
  todo tui`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              usageArgs(cobra.NoArgs),
		PersistentPreRunE: a.open,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", config.DefaultDir, "directory holding config.yaml")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the task store (default from config)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json, diskv, bolt, sqlite or memory")
	pf.StringVar(&a.flags.namespace, "namespace", "", "task collection name")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.doneCmd("done", true),
		a.doneCmd("undone", false),
		a.editCmd(),
		a.removeCmd(),
		a.clearCmd(),
		a.toggleAllCmd(),
		a.resetCmd(),
		a.tuiCmd(),
	)
	return root
}

// open loads configuration and wires logger, store, model and controller.
func (a *app) open(cmd *cobra.Command, args []string) error {
	if !cmd.HasParent() || cmd.Name() == "help" {
		return nil
	}
	cfg, err := config.Load(a.flags.configDir, config.Overrides{
		DataDir:   a.flags.dataDir,
		Backend:   a.flags.backend,
		Namespace: a.flags.namespace,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	if a.flags.noColor {
		ui.SetColorForcing(false, true)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.log = log.Named("todo")

	medium, err := store.NewMedium(cfg.Backend, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Backend, err)
	}
	s, err := store.Open(cmd.Context(), medium, cfg.Namespace, store.WithLogger(a.log))
	if err != nil {
		_ = medium.Close()
		return err
	}
	a.store = s
	a.tasks = todo.New(s)
	a.screen = ui.NewScreen()
	a.ctrl = controller.New(a.tasks, a.screen, controller.WithLogger(a.log))
	a.log.Debug("store ready",
		zap.String("backend", cfg.Backend),
		zap.String("data_dir", cfg.DataDir),
		zap.String("command", cmd.Name()),
	)
	return nil
}

func (a *app) close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
		a.store = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}
