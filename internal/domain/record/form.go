package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SystemFields никогда не попадают в форму редактирования.
var SystemFields = []string{"id", "createdAt", "updatedAt", "subscribe", "status"}

// FormTimeLayout - формат поля даты и времени в форме.
const FormTimeLayout = "2006-01-02T15:04"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	FormTimeLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime разбирает дату в любом из форматов, которые присылает сервер.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad time %q", ErrInvalidData, s)
}

// GalleryItem - элемент галереи: уже загруженное изображение или новый файл.
type GalleryItem struct {
	URL  string
	File *File
}

// IsNew - элемент еще не загружен на сервер.
func (g GalleryItem) IsNew() bool {
	return g.File != nil
}

// Basename возвращает имя файла из ссылки на изображение.
func (g GalleryItem) Basename() string {
	return g.URL[strings.LastIndex(g.URL, "/")+1:]
}

func (g GalleryItem) String() string {
	if g.File != nil {
		return g.File.Name
	}
	return g.URL
}

// Option - вариант выбора для поля внешнего ключа.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Input - поле формы с выведенным видом ввода.
type Input struct {
	Name  string
	Kind  InputKind
	Value any
}

// Display возвращает значение в том виде, в каком его показывает форма.
func (in Input) Display() string {
	if in.Kind == InputDateTime {
		if s, ok := in.Value.(string); ok {
			if t, err := ParseTime(s); err == nil {
				return t.UTC().Format(FormTimeLayout)
			}
		}
	}
	return Text(in.Value)
}

// Form - состояние редактирования одной записи.
type Form struct {
	data     *Record
	excluded map[string]struct{}
}

// NewForm открывает форму над копией записи.
// Помимо SystemFields скрываются поля из exclude.
func NewForm(r *Record, exclude ...string) *Form {
	f := &Form{
		data:     r.Clone(),
		excluded: make(map[string]struct{}, len(SystemFields)+len(exclude)),
	}
	for _, name := range SystemFields {
		f.excluded[name] = struct{}{}
	}
	for _, name := range exclude {
		f.excluded[name] = struct{}{}
	}

	if v, ok := f.data.Get(FieldGallery); ok {
		if items, ok := galleryItems(v); ok {
			f.data.Set(FieldGallery, items)
		}
	}

	return f
}

func (f *Form) ID() (int, error) {
	return f.data.ID()
}

// Record возвращает текущее состояние редактирования.
func (f *Form) Record() *Record {
	return f.data
}

// Inputs возвращает видимые поля в порядке записи.
func (f *Form) Inputs() []Input {
	inputs := make([]Input, 0, f.data.Len())
	for _, name := range f.data.Keys() {
		if f.Hidden(name) {
			continue
		}
		v, _ := f.data.Get(name)
		inputs = append(inputs, Input{Name: name, Kind: Infer(name, v), Value: v})
	}
	return inputs
}

// Input возвращает одно видимое поле.
func (f *Form) Input(name string) (Input, bool) {
	if f.Hidden(name) {
		return Input{}, false
	}
	v, ok := f.data.Get(name)
	if !ok {
		return Input{}, false
	}
	return Input{Name: name, Kind: Infer(name, v), Value: v}, true
}

func (f *Form) Hidden(name string) bool {
	_, ok := f.excluded[name]
	return ok
}

// Set меняет значение видимого поля.
func (f *Form) Set(name string, value any) error {
	if _, ok := f.Input(name); !ok {
		return fmt.Errorf("%w: поле %s недоступно для редактирования", ErrNotFound, name)
	}
	f.data.Set(name, value)
	return nil
}

// SetString меняет поле по текстовому вводу, приводя его к виду поля.
func (f *Form) SetString(name, raw string) error {
	in, ok := f.Input(name)
	if !ok {
		return fmt.Errorf("%w: поле %s недоступно для редактирования", ErrNotFound, name)
	}

	switch in.Kind {
	case InputNumber:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("%w: %s должно быть числом", ErrInvalidData, name)
		}
		f.data.Set(name, json.Number(raw))
	case InputCheckbox:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s должно быть true или false", ErrInvalidData, name)
		}
		f.data.Set(name, b)
	case InputFile:
		file, err := OpenFile(raw)
		if err != nil {
			return err
		}
		f.data.Set(name, file)
	case InputGallery:
		return fmt.Errorf("%w: галерея меняется через AddGalleryFiles", ErrInvalidData)
	default:
		f.data.Set(name, raw)
	}

	return nil
}

// Gallery возвращает элементы галереи, если поле есть.
func (f *Form) Gallery() []GalleryItem {
	v, _ := f.data.Get(FieldGallery)
	items, _ := v.([]GalleryItem)
	return items
}

// AddGalleryFiles добавляет новые файлы в конец галереи.
// Файлы, совпадающие по имени и размеру с уже добавленными, пропускаются.
func (f *Form) AddGalleryFiles(files ...*File) int {
	items := f.Gallery()
	added := 0

outer:
	for _, file := range files {
		for _, item := range items {
			if item.File.Same(file) {
				continue outer
			}
		}
		items = append(items, GalleryItem{File: file})
		added++
	}

	f.data.Set(FieldGallery, items)
	return added
}

// RemoveGalleryItem удаляет элемент галереи по индексу.
func (f *Form) RemoveGalleryItem(i int) error {
	items := f.Gallery()
	if i < 0 || i >= len(items) {
		return fmt.Errorf("%w: gallery index %d", ErrNotFound, i)
	}
	f.data.Set(FieldGallery, append(items[:i:i], items[i+1:]...))
	return nil
}

// Reset очищает состояние редактирования.
func (f *Form) Reset() {
	f.data = New()
}

// Payload собирает multipart тело из состояния редактирования.
func (f *Form) Payload() *Payload {
	return PayloadOf(f.data)
}

func galleryItems(v any) ([]GalleryItem, bool) {
	switch list := v.(type) {
	case []GalleryItem:
		return list, true
	case []any:
		items := make([]GalleryItem, 0, len(list))
		for _, el := range list {
			switch item := el.(type) {
			case map[string]any:
				switch img := item["image"].(type) {
				case string:
					items = append(items, GalleryItem{URL: img})
				case *File:
					items = append(items, GalleryItem{File: img})
				}
			case string:
				items = append(items, GalleryItem{URL: item})
			case *File:
				items = append(items, GalleryItem{File: item})
			}
		}
		return items, true
	default:
		return nil, false
	}
}
