package record

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize - предельный размер загружаемого файла.
const MaxFileSize = 100 * 1024 * 1024

// File - локальный файл, ожидающий загрузки на сервер.
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// NewFile создает файл из данных в памяти.
func NewFile(name string, data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f := &File{
		Name: filepath.Base(name),
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
	return f, f.Validate()
}

// OpenFile описывает файл на диске. Содержимое читается при отправке.
func OpenFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: это директория", path)
	}

	f := &File{
		Name: filepath.Base(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
	return f, f.Validate()
}

func (f *File) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidData)
	}

	if f.Size <= 0 {
		return ErrEmptyFile
	}

	if f.Size > MaxFileSize {
		return fmt.Errorf("%w: file too large (max 100MB)", ErrInvalidData)
	}

	// Определяем ContentType если не указан
	if f.ContentType == "" {
		ext := strings.ToLower(filepath.Ext(f.Name))
		f.ContentType = mime.TypeByExtension(ext)
		if f.ContentType == "" {
			f.ContentType = "application/octet-stream"
		}
	}

	return nil
}

// Open открывает содержимое файла.
func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, ErrEmptyFile
	}
	return f.open()
}

// Same сравнивает файлы по имени и размеру.
func (f *File) Same(other *File) bool {
	return f != nil && other != nil && f.Name == other.Name && f.Size == other.Size
}

func (f *File) String() string {
	return fmt.Sprintf("%s (%d bytes)", f.Name, f.Size)
}
