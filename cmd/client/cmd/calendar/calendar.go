package calendar

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/app/client"
	"tourdesk/internal/domain/calendar"
)

// CalendarCmd - родительская команда календаря событий
var CalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Календарь событий",
	Long: `Просмотр и изменение событий календаря.

Время в формах показывается со сдвигом CALENDAR_OFFSET_HOURS относительно
опорной зоны сервера и пересчитывается обратно при сохранении.`,
}

func init() {
	CalendarCmd.AddCommand(ListCmd)
	CalendarCmd.AddCommand(WatchCmd)
	CalendarCmd.AddCommand(AddCmd)
	CalendarCmd.AddCommand(EditCmd)
	CalendarCmd.AddCommand(RemoveCmd)
	CalendarCmd.AddCommand(ExportCmd)
}

// loadEvents загружает события с сервера.
func loadEvents(cmd *cobra.Command) (*client.App, error) {
	app, err := types.AuthorizedApp(cmd)
	if err != nil {
		return nil, err
	}
	if err := app.Calendar().Refetch(cmd.Context()); err != nil {
		return nil, err
	}
	return app, nil
}

func printEvents(w io.Writer, events []calendar.Event, offset time.Duration) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "Событий нет")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTART\tEND\tLEVEL")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			ev.ID, ev.Title,
			calendar.ToForm(ev.Start, offset),
			calendar.ToForm(ev.End, offset),
			ev.Level,
		)
	}
	return tw.Flush()
}
