package record

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"tourdesk/internal/domain/record"
)

var (
	editSets          []string
	editAddGallery    []string
	editRemoveGallery []int
)

var EditCmd = &cobra.Command{
	Use:   "edit <resource> <id>",
	Short: "Изменить запись",
	Long: `Открывает форму записи, применяет изменения и отправляет ее одним запросом.

Примеры:
  tourdesk record edit tours 3 --set title="Alps Trek" --set bestOffer=true
  tourdesk record edit tours 3 --set image=./cover.jpg --add-gallery ./a.jpg --remove-gallery 0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		sets, err := parseAssignments(editSets)
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

		if err := applyEdits(form, sets); err != nil {
			t.Close()
			return err
		}

		return t.Submit(cmd.Context())
	},
}

func applyEdits(form *record.Form, sets [][2]string) error {
	for _, kv := range sets {
		if err := form.SetString(kv[0], kv[1]); err != nil {
			return fmt.Errorf("поле %s: %w", kv[0], err)
		}
	}

	// удаляем с конца, чтобы индексы не сдвигались
	remove := append([]int(nil), editRemoveGallery...)
	sort.Sort(sort.Reverse(sort.IntSlice(remove)))
	for _, i := range remove {
		if err := form.RemoveGalleryItem(i); err != nil {
			return err
		}
	}

	files := make([]*record.File, 0, len(editAddGallery))
	for _, path := range editAddGallery {
		f, err := record.OpenFile(path)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	if len(files) > 0 {
		added := form.AddGalleryFiles(files...)
		if skipped := len(files) - added; skipped > 0 {
			fmt.Printf("Пропущено дубликатов: %d\n", skipped)
		}
	}
	return nil
}

func init() {
	EditCmd.Flags().StringArrayVarP(&editSets, "set", "s", nil, "значение поля key=value (для файловых полей путь к файлу)")
	EditCmd.Flags().StringArrayVar(&editAddGallery, "add-gallery", nil, "добавить файл в галерею")
	EditCmd.Flags().IntSliceVar(&editRemoveGallery, "remove-gallery", nil, "удалить элемент галереи по индексу")
}
