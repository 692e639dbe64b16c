package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/toni6/taskproc/domain/entity"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the current view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}

			tasks := m.CurrentView()
			if app.JSONOutput {
				return printJSON(cmd, tasks)
			}

			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks in view")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tTAGS")
			for _, t := range tasks {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
					t.ID, t.Title, t.Status, t.Priority, orDash(t.DueDate), strings.Join(t.Tags, ","))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d tasks\n", len(tasks), m.TaskCount())
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one task by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("task id must be an integer, got %q", args[0])
			}

			m, err := app.loadService()
			if err != nil {
				return err
			}
			t, err := m.GetTask(id)
			if err != nil {
				return err
			}

			if app.JSONOutput {
				return printJSON(cmd, t)
			}
			printTask(cmd, t)
			return nil
		},
	}
}

func newFilterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "filter <expression>",
		Short: "Narrow the view with a filter expression",
		Long: strings.TrimSpace(`
Narrow the current view. An expression is <field><op><value> with operators
=, !=, >, <, >=, <=. Numeric operators apply to id and priority; equality to
title, status, created_date, assignee and description; due_date also allows
date ordering. Filters stack until reset.

Examples:
  taskproc filter "status=todo"
  taskproc filter "priority>=3"
  taskproc filter "due_date<2024-06-01"`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			if err := m.ApplyFilter(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "View narrowed to %d of %d tasks\n",
				m.ViewCount(), m.TaskCount())
			return nil
		},
	}
}

func newSortCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <expression>",
		Short: "Order the view by a field",
		Long: strings.TrimSpace(`
Order the current view. An expression is "<field> [asc|desc]"; direction
defaults to ascending. Equal keys keep their relative order, so chained
sorts refine each other.

Examples:
  taskproc sort "priority desc"
  taskproc sort "due_date"`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			if err := m.ApplySort(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "View sorted by %q\n", args[0])
			return nil
		},
	}
}

func newFindTagCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "find-tag <tag>",
		Short: "Narrow the view to tasks carrying a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			if err := m.FilterByTag(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "View narrowed to %d of %d tasks\n",
				m.ViewCount(), m.TaskCount())
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all filters and sorting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}
			m.ResetView()
			fmt.Fprintf(cmd.OutOrStdout(), "View reset to %d tasks\n", m.ViewCount())
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Print the recorded view operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loadService()
			if err != nil {
				return err
			}

			actions := m.History()
			if app.JSONOutput {
				return printJSON(cmd, actions)
			}
			if len(actions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded operations")
				return nil
			}
			for i, a := range actions {
				if a.Payload == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, a.Type)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s %q\n", i+1, a.Type, a.Payload)
			}
			return nil
		},
	}
}

func printTask(cmd *cobra.Command, t *entity.Task) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", t.ID)
	fmt.Fprintf(out, "Title:       %s\n", t.Title)
	fmt.Fprintf(out, "Status:      %s\n", t.Status)
	fmt.Fprintf(out, "Priority:    %d\n", t.Priority)
	fmt.Fprintf(out, "Created:     %s\n", orDash(t.CreatedDate))
	fmt.Fprintf(out, "Due:         %s\n", orDash(t.DueDate))
	fmt.Fprintf(out, "Assignee:    %s\n", orDash(t.Assignee))
	fmt.Fprintf(out, "Tags:        %s\n", orDash(strings.Join(t.Tags, ",")))
	if t.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", t.Description)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
