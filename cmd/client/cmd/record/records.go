package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/app/client"
	"tourdesk/internal/domain/table"
)

// RecordCmd - родительская команда для всех операций с записями ресурсов
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Управление записями",
	Long: `Просмотр, изменение, создание и удаление записей ресурсов панели.

Ресурсы: ` + strings.Join(table.Names(), ", "),
}

func init() {
	RecordCmd.AddCommand(ListCmd)
	RecordCmd.AddCommand(ShowCmd)
	RecordCmd.AddCommand(EditCmd)
	RecordCmd.AddCommand(CreateCmd)
	RecordCmd.AddCommand(DeleteCmd)
	RecordCmd.AddCommand(DeleteManyCmd)
}

// openTable возвращает таблицу ресурса, при load=true загруженную с сервера.
func openTable(cmd *cobra.Command, resource string, load bool) (*client.App, *table.Table, error) {
	app, err := types.AuthorizedApp(cmd)
	if err != nil {
		return nil, nil, err
	}
	t, err := app.Table(resource)
	if err != nil {
		return nil, nil, err
	}
	if load {
		if err := t.Load(cmd.Context()); err != nil {
			return nil, nil, fmt.Errorf("ошибка загрузки %s: %w", resource, err)
		}
	}
	return app, t, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("некорректный id: %q", s)
	}
	return id, nil
}

// parseAssignments разбирает значения вида key=value.
func parseAssignments(items []string) ([][2]string, error) {
	out := make([][2]string, 0, len(items))
	for _, item := range items {
		key, value, ok := strings.Cut(item, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("ожидается key=value: %q", item)
		}
		out = append(out, [2]string{key, value})
	}
	return out, nil
}
