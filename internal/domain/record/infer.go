package record

import (
	"encoding/json"
	"strings"
)

const FieldGallery = "gallery"

var textAreaHints = []string{"description", "content", "message", "comment"}

// Infer выбирает вид ввода по имени поля и типу его значения.
// Правила применяются строго по порядку, функция тотальна.
func Infer(name string, value any) InputKind {
	if name == FieldGallery && isList(value) {
		return InputGallery
	}

	if strings.Contains(name, "Id") || strings.Contains(name, "_id") {
		return InputSelect
	}

	lower := strings.ToLower(name)

	if _, isFile := value.(*File); isFile || strings.Contains(lower, "image") {
		return InputFile
	}

	switch value.(type) {
	case int, int64, float64, json.Number:
		return InputNumber
	case bool:
		return InputCheckbox
	case string:
		switch {
		case strings.Contains(lower, "email"):
			return InputEmail
		case strings.Contains(lower, "password"):
			return InputPassword
		case strings.Contains(lower, "date"):
			return InputDateTime
		case containsAny(lower, textAreaHints):
			return InputTextArea
		}
	}

	return InputText
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []GalleryItem:
		return true
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
