package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load <source>",
		Short: "Load tasks from a file or database URL and make it the active source",
		Long: strings.TrimSpace(`
Load tasks from a data source and make it the active one. Supported sources:
.csv and .json files, postgres:// and mysql:// connection URLs. Switching
sources discards the recorded view history.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}

			source := args[0]
			// Relative file paths are resolved now, so the persisted source
			// stays loadable from a different working directory.
			if !strings.Contains(source, "://") && !filepath.IsAbs(source) {
				if abs, err := filepath.Abs(source); err == nil {
					source = abs
				}
			}

			if err := m.LoadSource(source); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d tasks from %s\n", m.TaskCount(), source)
			return nil
		},
	}
}

func newReloadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-read the active source and rebuild the view from the recorded history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			if err := m.ReloadSource(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reloaded %d tasks from %s (view: %d)\n",
				m.TaskCount(), m.CurrentSourcePath(), m.ViewCount())
			return nil
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all state: tasks, view, history and the storage file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			if err := m.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all state")
			return nil
		},
	}
}
