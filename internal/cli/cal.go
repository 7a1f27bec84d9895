package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"haru/internal/calendar"
	"haru/internal/task"
	"haru/internal/ui"
)

func newCalCmd(app *App) *cobra.Command {
	var month string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "cal",
		Short: "Print a month of tasks as a calendar grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context(), false); err != nil {
				return err
			}
			now := time.Now()
			m := calendar.MonthOf(now)
			if month != "" {
				var err error
				if m, err = calendar.ParseMonth(month); err != nil {
					return err
				}
			}
			g := calendar.Layout(m, app.Repo.List(), task.FormatDate(now))
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), g)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), ui.RenderCalendar(g))
			return err
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Month to show (YYYY-MM, default current)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
