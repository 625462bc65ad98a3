package calendar

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/calendar"
)

var (
	exportOut  string
	exportName string
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Выгрузить события в iCalendar (.ics)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := loadEvents(cmd)
		if err != nil {
			return err
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("ошибка создания файла: %w", err)
			}
			defer f.Close()
			out = f
		}

		if err := calendar.Export(out, app.Calendar().Events(), exportName); err != nil {
			return err
		}
		if exportOut != "" {
			fmt.Printf("Календарь сохранен в %s\n", exportOut)
		}
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "файл (по умолчанию stdout)")
	ExportCmd.Flags().StringVar(&exportName, "name", "TourDesk", "название календаря")
}
