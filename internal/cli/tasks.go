package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"haru/internal/task"
)

func newAddCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			if date == "" {
				date = task.FormatDate(time.Now())
			}
			t, err := app.Repo.Create(cmd.Context(), args[0], date)
			if err != nil {
				return err
			}
			app.Logger.Debug("task added", "id", t.ID)
			return writeTask(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Task date (YYYY-MM-DD, default today)")
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var status string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks: open first, then by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			if !cmd.Flags().Changed("status") {
				status = app.Cfg.DefaultFilter
			}
			st, err := task.ParseStatus(status)
			if err != nil {
				return err
			}
			rows := task.ListView(app.Repo.List(), st)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, rows)
			}
			for _, t := range rows {
				if err := writeTask(out, t); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "%d task(s)\n", len(rows))
			return err
		},
	}
	cmd.Flags().StringVar(&status, "status", "all", "Filter: all, open or done")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			id, err := resolveID(app.Repo, args[0])
			if err != nil {
				return err
			}
			if err := app.Repo.Toggle(cmd.Context(), id); err != nil {
				return err
			}
			t, _ := app.Repo.Get(id)
			return writeTask(cmd.OutOrStdout(), t)
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Change a task's title (and optionally its date)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			id, err := resolveID(app.Repo, args[0])
			if err != nil {
				return err
			}
			p := task.Patch{Title: &args[1]}
			if date != "" {
				p.Date = &date
			}
			if err := app.Repo.Update(cmd.Context(), id, p); err != nil {
				return err
			}
			t, _ := app.Repo.Get(id)
			return writeTask(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "New date (YYYY-MM-DD)")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			id, err := resolveID(app.Repo, args[0])
			if err != nil {
				return err
			}
			if err := app.Repo.Delete(cmd.Context(), id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return err
		},
	}
}

func writeTask(w io.Writer, t task.Task) error {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	_, err := fmt.Fprintf(w, "%s  %s %s  %s\n", t.ID, box, t.Title, task.DisplayDate(t.Date))
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
