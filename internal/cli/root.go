package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"haru/internal/config"
	"haru/internal/kv"
	"haru/internal/logging"
	"haru/internal/store"
	"haru/internal/task"
	"haru/internal/ui"
)

type App struct {
	ConfigPath string
	Cfg        config.Config
	Logger     *log.Logger
	Repo       *task.Repository

	backend kv.Backend
	closers []io.Closer
}

// Execute runs the haru command line. Storage and log files are released on
// every path, including commands that fail.
func Execute(ctx context.Context) error {
	app := &App{}
	return execute(ctx, app, NewRootCmd(app))
}

func execute(ctx context.Context, app *App, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, app.Close())
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "haru",
		Short:        "Dated tasks in a list and a monthly calendar",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  haru

  # Scriptable commands
  haru add "Pay rent" --date 2024-03-05
  haru list --status open
  haru cal --month 2024-03
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $HARU_CONFIG or the user config dir)")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newCalCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	if err := app.open(ctx, true); err != nil {
		return err
	}
	return ui.Run(app.Repo, app.Cfg, app.Logger)
}

// open loads config, sets up logging and loads the repository. Interactive
// sessions log to the configured file; commands log to stderr.
func (app *App) open(ctx context.Context, interactive bool) error {
	if app.Repo != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if app.ConfigPath == "" {
		app.ConfigPath = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(app.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.Cfg = cfg

	if interactive {
		logger, closer, err := logging.OpenFile(cfg.Log.File, cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		app.Logger = logger
		app.closers = append(app.closers, closer)
	} else {
		app.Logger = logging.New(os.Stderr, cfg.Log.Level)
	}

	backend, err := kv.Open(ctx, kv.Options{
		Backend:  cfg.Storage.Backend,
		DBPath:   cfg.DBPath,
		RedisURL: cfg.Storage.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	app.backend = backend

	st, err := store.New(backend, cfg.Storage.Key, app.Logger)
	if err != nil {
		return err
	}
	app.Repo = task.NewRepository(ctx, st)
	app.Logger.Debug("storage ready", "backend", cfg.Storage.Backend, "tasks", len(app.Repo.List()))
	return nil
}

func (app *App) Close() error {
	var errs []error
	if app.backend != nil {
		errs = append(errs, app.backend.Close())
		app.backend = nil
	}
	for _, c := range app.closers {
		errs = append(errs, c.Close())
	}
	app.closers = nil
	return errors.Join(errs...)
}

// resolveID accepts a full id or an unambiguous prefix of one.
func resolveID(repo *task.Repository, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errors.New("task id is empty")
	}
	if _, ok := repo.Get(v); ok {
		return v, nil
	}
	var match string
	for _, t := range repo.List() {
		if !strings.HasPrefix(t.ID, v) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("task id %q is ambiguous", v)
		}
		match = t.ID
	}
	if match == "" {
		return "", fmt.Errorf("no task with id %q", v)
	}
	return match, nil
}
