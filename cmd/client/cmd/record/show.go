package record

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/record"
)

var ShowCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Поля формы редактирования записи",
	Long:  `Показывает поля, которые будут доступны при редактировании, и их типы ввода.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}

		_, t, err := openTable(cmd, args[0], true)
		if err != nil {
			return err
		}

		form, err := t.Open(id)
		if err != nil {
			return err
		}
		defer t.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tINPUT\tVALUE")
		for _, in := range form.Inputs() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", in.Name, in.Kind.DisplayName(), in.Display())
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if gallery := form.Gallery(); len(gallery) > 0 {
			fmt.Println()
			fmt.Println("Галерея:")
			for i, item := range gallery {
				fmt.Printf("  [%d] %s\n", i, item)
			}
		}

		if opts := t.Options(); len(opts) > 0 {
			for _, in := range form.Inputs() {
				if in.Kind != record.InputSelect {
					continue
				}
				fmt.Println()
				fmt.Printf("Варианты для %s:\n", in.Name)
				for _, o := range opts {
					fmt.Printf("  %s - %s\n", o.Value, o.Label)
				}
			}
		}
		return nil
	},
}
