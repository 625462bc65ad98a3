package tour

import (
	"fmt"

	"github.com/spf13/cobra"

	"tourdesk/cmd/client/cmd/types"
	"tourdesk/internal/domain/record"
	"tourdesk/internal/domain/tour"
)

// TourCmd - операции, для которых у туров есть отдельная форма
var TourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Туры",
}

var (
	draft   = tour.NewDraft()
	image   string
	gallery []string
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Добавить тур",
	Long: `Отправляет форму нового тура одним multipart запросом.

Пример:
  tourdesk tour create --title "Alps Trek" --description "desc" --price 1200 \
    --start 2030-06-01T09:00 --end 2030-06-07T18:00 --image ./cover.jpg --gallery ./1.jpg`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.AuthorizedApp(cmd)
		if err != nil {
			return err
		}

		d := draft
		if image != "" {
			if d.Image, err = record.OpenFile(image); err != nil {
				return err
			}
		}
		for _, path := range gallery {
			f, err := record.OpenFile(path)
			if err != nil {
				return err
			}
			d.AddGallery(f)
		}

		tours, err := app.Table("tours")
		if err != nil {
			return err
		}

		if err := app.Tours().Create(cmd.Context(), &d, func() {
			_ = tours.Load(cmd.Context())
		}); err != nil {
			return err
		}

		fmt.Printf("Туров в списке: %d\n", len(tours.Rows()))
		return nil
	},
}

func init() {
	TourCmd.AddCommand(CreateCmd)

	f := CreateCmd.Flags()
	f.StringVar(&draft.Title, "title", "", "название (обязательно)")
	f.StringVar(&draft.Description, "description", "", "описание (обязательно)")
	f.StringVar(&draft.Location, "location", "", "место")
	f.Float64Var(&draft.Price, "price", 0, "цена")
	f.Float64Var(&draft.Duration, "duration", 0, "длительность")
	f.StringVar(&draft.StartDate, "start", "", "дата начала")
	f.StringVar(&draft.EndDate, "end", "", "дата окончания")
	f.IntVar(&draft.TypeID, "type", tour.DefaultTypeID, "id типа тура")
	f.BoolVar(&draft.BestOffer, "best-offer", false, "лучшее предложение")
	f.BoolVar(&draft.Adventures, "adventures", false, "приключения")
	f.BoolVar(&draft.Experience, "experience", false, "впечатления")
	f.StringVar(&image, "image", "", "обложка")
	f.StringArrayVar(&gallery, "gallery", nil, "файл галереи (можно несколько)")
}
