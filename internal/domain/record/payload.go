package record

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

const (
	PartGallery         = "gallery[]"
	PartExistingGallery = "existingGallery[]"
)

// Part - одна часть multipart тела: строка или файл.
type Part struct {
	Name  string
	Value string
	File  *File
}

// Payload - упорядоченное multipart тело запроса.
type Payload struct {
	parts []Part
}

func NewPayload() *Payload {
	return &Payload{}
}

// PayloadOf сериализует запись: скаляры как есть, галерея раскладывается
// на новые файлы (gallery[]) и ссылки на оставленные изображения (existingGallery[]).
// Пустые значения пропускаются.
func PayloadOf(r *Record) *Payload {
	p := NewPayload()
	for _, key := range r.Keys() {
		v, _ := r.Get(key)
		if v == nil {
			continue
		}

		if key == FieldGallery {
			if items, ok := galleryItems(v); ok {
				p.AddGallery(items)
				continue
			}
		}

		if file, ok := v.(*File); ok {
			p.AddFile(key, file)
			continue
		}

		p.Add(key, Text(v))
	}
	return p
}

func (p *Payload) Add(name, value string) *Payload {
	p.parts = append(p.parts, Part{Name: name, Value: value})
	return p
}

func (p *Payload) AddFile(name string, f *File) *Payload {
	if f != nil {
		p.parts = append(p.parts, Part{Name: name, File: f})
	}
	return p
}

// AddGallery добавляет элементы галереи в их порядке.
func (p *Payload) AddGallery(items []GalleryItem) *Payload {
	for _, item := range items {
		switch {
		case item.File != nil:
			p.AddFile(PartGallery, item.File)
		case item.URL != "":
			p.Add(PartExistingGallery, item.Basename())
		}
	}
	return p
}

// Parts возвращает части тела в порядке добавления.
func (p *Payload) Parts() []Part {
	return append([]Part(nil), p.parts...)
}

// Values возвращает строковые значения части по имени.
func (p *Payload) Values(name string) []string {
	var out []string
	for _, part := range p.parts {
		if part.Name == name && part.File == nil {
			out = append(out, part.Value)
		}
	}
	return out
}

// Files возвращает файлы части по имени.
func (p *Payload) Files(name string) []*File {
	var out []*File
	for _, part := range p.parts {
		if part.Name == name && part.File != nil {
			out = append(out, part.File)
		}
	}
	return out
}

// Encode пишет тело в формате multipart/form-data.
func (p *Payload) Encode() (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, part := range p.parts {
		if part.File == nil {
			if err := w.WriteField(part.Name, part.Value); err != nil {
				return "", nil, fmt.Errorf("поле %s: %w", part.Name, err)
			}
			continue
		}
		if err := writeFile(w, part); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}

	return w.FormDataContentType(), &buf, nil
}

func writeFile(w *multipart.Writer, part Part) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Name, part.File.Name))
	h.Set("Content-Type", part.File.ContentType)

	dst, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("файл %s: %w", part.File.Name, err)
	}

	src, err := part.File.Open()
	if err != nil {
		return fmt.Errorf("файл %s: %w", part.File.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("файл %s: %w", part.File.Name, err)
	}
	return nil
}
