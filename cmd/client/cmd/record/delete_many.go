package record

import (
	"github.com/spf13/cobra"
)

var DeleteManyCmd = &cobra.Command{
	Use:   "delete-many <resource> <id>...",
	Short: "Удалить несколько записей одним запросом",
	Long: `Сервер получает весь набор id сразу. Частичный отказ сервера
не отличается от полного.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args)-1)
		for _, raw := range args[1:] {
			id, err := parseID(raw)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		_, t, err := openTable(cmd, args[0], false)
		if err != nil {
			return err
		}

		if _, err := t.ToggleSelect(); err != nil {
			return err
		}
		for _, id := range ids {
			if err := t.Select(id, true); err != nil {
				return err
			}
		}

		return t.BulkDelete(cmd.Context())
	},
}
