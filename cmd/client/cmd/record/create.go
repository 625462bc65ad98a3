// cmd/client/cmd/record/create.go
package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/record"
)

var (
	createSets  []string
	createFiles []string
)

var CreateCmd = &cobra.Command{
	Use:   "create <resource>",
	Short: "Создать запись",
	Long: `Создает запись ресурса, для которого разрешено добавление (types, faqs, team).

Примеры:
  tourdesk record create types --set name=Hiking
  tourdesk record create faqs --set question="Visa?" --set answer="Not required"
  tourdesk record create team --set name=Ann --set position=Guide --file image=./ann.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := parseAssignments(createSets)
		if err != nil {
			return err
		}
		files, err := parseAssignments(createFiles)
		if err != nil {
			return err
		}

		_, t, err := openTable(cmd, args[0], false)
		if err != nil {
			return err
		}

		r := record.New()
		for _, kv := range sets {
			r.Set(kv[0], kv[1])
		}
		for _, kv := range files {
			f, err := record.OpenFile(kv[1])
			if err != nil {
				return fmt.Errorf("поле %s: %w", kv[0], err)
			}
			r.Set(kv[0], f)
		}

		return t.Create(cmd.Context(), r)
	},
}

func init() {
	CreateCmd.Flags().StringArrayVarP(&createSets, "set", "s", nil, "значение поля key=value")
	CreateCmd.Flags().StringArrayVar(&createFiles, "file", nil, "файловое поле key=путь")
}
