package tour

import (
	"errors"
	"strconv"
	"strings"

	"tourdesk/internal/domain/record"
)

const DefaultTypeID = 1

var ErrRequired = errors.New("title and description are required")

// Draft - состояние формы создания тура.
type Draft struct {
	Title       string
	Description string
	Location    string
	Price       float64
	Duration    float64
	StartDate   string
	EndDate     string
	TypeID      int
	BestOffer   bool
	Adventures  bool
	Experience  bool
	Image       *record.File
	Gallery     []*record.File
}

// NewDraft возвращает форму со значениями по умолчанию.
func NewDraft() Draft {
	return Draft{TypeID: DefaultTypeID}
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return ErrRequired
	}
	return nil
}

// AddGallery добавляет файлы, пропуская совпадающие по имени и размеру.
func (d *Draft) AddGallery(files ...*record.File) {
outer:
	for _, f := range files {
		for _, existing := range d.Gallery {
			if existing.Same(f) {
				continue outer
			}
		}
		d.Gallery = append(d.Gallery, f)
	}
}

// Payload собирает multipart тело в фиксированном порядке полей.
func (d Draft) Payload() *record.Payload {
	p := record.NewPayload().
		Add("title", d.Title).
		Add("description", d.Description).
		Add("location", d.Location).
		Add("price", formatNumber(d.Price)).
		Add("duration", formatNumber(d.Duration)).
		Add("startDate", d.StartDate).
		Add("endDate", d.EndDate).
		Add("typeId", strconv.Itoa(d.TypeID)).
		Add("bestOffer", strconv.FormatBool(d.BestOffer)).
		Add("adventures", strconv.FormatBool(d.Adventures)).
		Add("experience", strconv.FormatBool(d.Experience))

	p.AddFile("image", d.Image)
	for _, f := range d.Gallery {
		p.AddFile(record.PartGallery, f)
	}

	return p
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
