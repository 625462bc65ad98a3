package table

import (
	"errors"

	"tourdesk/internal/domain/record"
)

var (
	ErrReadOnly     = errors.New("operation is disabled for this resource")
	ErrUnknown      = errors.New("unknown resource")
	ErrNotLoaded    = errors.New("no record with this id")
	ErrNoForm       = errors.New("no form is open")
	ErrNoSelection  = errors.New("nothing is selected")
	ErrRequired     = errors.New("required fields are missing")
	ErrSelectMode   = errors.New("select mode is off")
	ErrNotSupported = errors.New("not supported for single-record resources")
)

// OptionSource - ресурс, из которого строятся варианты выбора внешнего ключа.
type OptionSource struct {
	Resource string
	Label    string
}

// CreateSpec описывает создание записи ресурса.
type CreateSpec struct {
	Required    []string
	RequiredMsg string
	Multipart   bool
}

// Config - описание страницы ресурса.
type Config struct {
	Name       string
	Resource   string
	Title      string
	Columns    []string
	Edit       bool
	Save       bool
	Deletable  bool
	BulkSelect bool
	Highlight  bool
	// Single - ресурс хранит ровно одну запись (about, contact).
	Single  bool
	Exclude []string
	Filter  func(*record.Record) bool
	Options *OptionSource
	Create  *CreateSpec
}

// Path возвращает путь ресурса в API.
func (c Config) Path() string {
	return "/" + c.Resource
}
