package calendar

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/domain/calendar"
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Следить за событиями в реальном времени",
	Long: `Загружает события и применяет изменения из push-канала по мере их
поступления. Завершается по Ctrl+C.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AuthorizedApp(cmd)
		if err != nil {
			return err
		}

		offset := app.Config().Offset()
		off := app.Calendar().OnChange(func(events []calendar.Event) {
			fmt.Printf("\n[%s] событий: %d\n", time.Now().Format("15:04:05"), len(events))
			_ = printEvents(os.Stdout, events, offset)
		})
		defer off()

		defer app.Calendar().Unmount()
		if err := app.Calendar().Mount(cmd.Context()); err != nil {
			return err
		}

		return app.Run(cmd.Context())
	},
}
