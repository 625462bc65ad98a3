package record

import (
	"errors"
)

var (
	ErrNoID        = errors.New("record has no id")
	ErrInvalidData = errors.New("invalid record data")
	ErrNotFound    = errors.New("record not found")
	ErrEmptyFile   = errors.New("file is empty")
	ErrUnknownKind = errors.New("unknown input kind")
)
