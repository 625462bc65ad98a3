package calendar

import (
	"fmt"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/calendar"
)

var (
	eventTitle string
	eventStart string
	eventEnd   string
	eventLevel string
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Добавить событие",
	Long: `Время задается так, как оно показывается в календаре (YYYY-MM-DDTHH:MM).

Пример:
  tourdesk calendar add --title Briefing --start 2030-02-01T12:00 --level Business`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := loadEvents(cmd)
		if err != nil {
			return err
		}

		offset := app.Config().Offset()
		start, err := calendar.FromForm(eventStart, offset)
		if err != nil {
			return err
		}
		end, err := calendar.FromForm(eventEnd, offset)
		if err != nil {
			return err
		}

		editor := app.Editor()
		if err := editor.Select(start, end); err != nil {
			return err
		}
		defer editor.Close()

		form := editor.Form()
		form.Title = eventTitle
		form.Level = calendar.Level(eventLevel)
		if err := editor.SetForm(form); err != nil {
			return err
		}
		return save(cmd, editor)
	},
}

var EditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Изменить событие",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadEvents(cmd)
		if err != nil {
			return err
		}

		editor := app.Editor()
		if err := editor.Open(args[0]); err != nil {
			return err
		}
		defer editor.Close()

		form := editor.Form()
		if cmd.Flags().Changed("title") {
			form.Title = eventTitle
		}
		if cmd.Flags().Changed("start") {
			form.Start = eventStart
		}
		if cmd.Flags().Changed("end") {
			form.End = eventEnd
		}
		if cmd.Flags().Changed("level") {
			form.Level = calendar.Level(eventLevel)
		}
		if err := editor.SetForm(form); err != nil {
			return err
		}
		return save(cmd, editor)
	},
}

var RemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Удалить событие",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadEvents(cmd)
		if err != nil {
			return err
		}

		editor := app.Editor()
		if err := editor.Open(args[0]); err != nil {
			return err
		}
		if err := editor.Remove(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Событие %s удалено\n", args[0])
		return nil
	},
}

func save(cmd *cobra.Command, editor *calendar.Editor) error {
	if eventLevel != "" {
		if _, err := calendar.ParseLevel(eventLevel); err != nil {
			return fmt.Errorf("%w (варианты: %v)", err, calendar.Levels)
		}
	}
	if err := editor.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Событие сохранено")
	return nil
}

func init() {
	for _, c := range []*cobra.Command{AddCmd, EditCmd} {
		c.Flags().StringVar(&eventTitle, "title", "", "название")
		c.Flags().StringVar(&eventStart, "start", "", "начало, YYYY-MM-DDTHH:MM")
		c.Flags().StringVar(&eventEnd, "end", "", "окончание, YYYY-MM-DDTHH:MM")
		c.Flags().StringVar(&eventLevel, "level", "", "категория: Personal, Business, Family, Holiday, Summary")
	}
	_ = AddCmd.MarkFlagRequired("start")
}
