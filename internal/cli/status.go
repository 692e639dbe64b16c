package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the current view: source, counts, status buckets, overdue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}

			today := time.Now().Format("2006-01-02")
			stats := m.StatusStats()

			if app.JSONOutput {
				return printJSON(cmd, map[string]any{
					"source":           m.CurrentSourcePath(),
					"total_tasks":      m.TaskCount(),
					"view_tasks":       m.ViewCount(),
					"by_status":        map[string]int{"todo": stats.Todo, "in-progress": stats.InProgress, "done": stats.Done, "other": stats.Other},
					"average_priority": m.AveragePriority(),
					"overdue":          m.OverdueCount(today),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:           %s\n", orDash(m.CurrentSourcePath()))
			fmt.Fprintf(out, "Tasks:            %d total, %d in view\n", m.TaskCount(), m.ViewCount())
			fmt.Fprintf(out, "Status:           %d todo, %d in-progress, %d done", stats.Todo, stats.InProgress, stats.Done)
			if stats.Other > 0 {
				fmt.Fprintf(out, ", %d other", stats.Other)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Average priority: %.2f\n", m.AveragePriority())
			fmt.Fprintf(out, "Overdue:          %d\n", m.OverdueCount(today))
			return nil
		},
	}
}
