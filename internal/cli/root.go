// Package cli implements the taskproc command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toni6/taskproc/configs"
	"github.com/toni6/taskproc/history"
	"github.com/toni6/taskproc/infrastructure/logger"
	"github.com/toni6/taskproc/reader"
	tasksvc "github.com/toni6/taskproc/task"
)

// App carries the persistent flags and lazily built service state shared by
// all subcommands.
type App struct {
	ConfigFile string
	StorageDir string
	JSONOutput bool

	config  *configs.Config
	manager *tasksvc.Manager
}

// NewRootCmd builds the taskproc command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "taskproc",
		Short:         "Load task data, build filtered and sorted views, and keep them across runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: `  # Load a data source and inspect it
  taskproc load tasks.csv
  taskproc list

  # Narrow and order the view; the view survives restarts
  taskproc filter "status=todo"
  taskproc filter "priority>=3"
  taskproc sort "due_date asc"

  # Summaries and cleanup
  taskproc status
  taskproc reset
  taskproc clear`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.InitFromEnv(); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("TASKPROC_CONFIG_FILE", ""), "Path to config file")
	cmd.PersistentFlags().StringVar(&app.StorageDir, "storage-dir", "", "Directory holding the view storage file (default: current directory)")
	cmd.PersistentFlags().BoolVar(&app.JSONOutput, "json", false, "Emit JSON instead of text")

	cmd.AddCommand(newLoadCmd(app))
	cmd.AddCommand(newReloadCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newFilterCmd(app))
	cmd.AddCommand(newSortCmd(app))
	cmd.AddCommand(newFindTagCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

// loadService builds the manager on first use. Construction restores any
// persisted view, so every subcommand starts from the durable state.
func (a *App) loadService() (*tasksvc.Manager, error) {
	if a.manager != nil {
		return a.manager, nil
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	registry := reader.NewRegistry(
		reader.NewCSV(),
		reader.NewJSON(),
		reader.NewPostgres(cfg.Database.QueryTimeout),
		reader.NewMySQL(cfg.Database.QueryTimeout),
	)

	storagePath := cfg.Storage.Path()
	if a.StorageDir != "" {
		storagePath = filepath.Join(a.StorageDir, cfg.Storage.Filename)
	}

	a.manager = tasksvc.NewManager(registry, history.New(storagePath))
	return a.manager, nil
}

func (a *App) loadConfig() (*configs.Config, error) {
	if a.config != nil {
		return a.config, nil
	}
	cfg, err := configs.LoadConfig(a.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a.config = cfg
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
