package record

import (
	"fmt"
)

// InputKind - способ редактирования поля записи.
type InputKind string

const (
	InputText     InputKind = "text"
	InputNumber   InputKind = "number"
	InputEmail    InputKind = "email"
	InputPassword InputKind = "password"
	InputDateTime InputKind = "datetime-local"
	InputCheckbox InputKind = "checkbox"
	InputFile     InputKind = "file"
	InputGallery  InputKind = "gallery"
	InputSelect   InputKind = "select"
	InputTextArea InputKind = "textarea"
)

// Validate проверяет, что вид ввода известен.
func (k InputKind) Validate() error {
	switch k {
	case InputText, InputNumber, InputEmail, InputPassword, InputDateTime,
		InputCheckbox, InputFile, InputGallery, InputSelect, InputTextArea:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownKind, k)
}

// String возвращает строковое представление вида.
func (k InputKind) String() string {
	return string(k)
}

// DisplayName возвращает человекочитаемое название вида ввода.
func (k InputKind) DisplayName() string {
	switch k {
	case InputText:
		return "Text"
	case InputNumber:
		return "Number"
	case InputEmail:
		return "Email"
	case InputPassword:
		return "Password"
	case InputDateTime:
		return "Date and time"
	case InputCheckbox:
		return "Yes/No"
	case InputFile:
		return "Image"
	case InputGallery:
		return "Gallery"
	case InputSelect:
		return "Select"
	case InputTextArea:
		return "Long text"
	default:
		return "Unknown"
	}
}
