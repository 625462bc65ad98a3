package calendar

import (
	"os"

	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список событий",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := loadEvents(cmd)
		if err != nil {
			return err
		}
		return printEvents(os.Stdout, app.Calendar().Events(), app.Config().Offset())
	},
}
