// cmd/client/cmd/record/list.go
package record

import (
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/table"
)

var (
	listFormat    string
	listHighlight string
)

var ListCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "Список записей ресурса",
	Long: `Выводит записи ресурса таблицей, JSON, YAML или CSV.

Флаг --highlight принимает список id через запятую и отмечает строки маркером.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := table.ParseFormat(listFormat)
		if err != nil {
			return err
		}

		_, t, err := openTable(cmd, args[0], true)
		if err != nil {
			return err
		}

		if listHighlight != "" {
			t.SetHighlight(url.Values{table.HighlightParam: {listHighlight}}.Encode())
		}

		return t.Render(os.Stdout, format)
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "формат вывода: table, json, yaml, csv")
	ListCmd.Flags().StringVar(&listHighlight, "highlight", "", "подсветить строки с этими id (через запятую)")
}
