package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrHandled - маркер ошибки, о которой пользователь уже уведомлен.
	ErrHandled = errors.New("already handled")
	// ErrNoResponse - сервер недоступен, ответа нет.
	ErrNoResponse = errors.New("no response from server")
)

// APIError - классифицированная ошибка запроса.
type APIError struct {
	Status  int
	Reason  string
	Message string
	Handled bool
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Status > 0:
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("status %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is позволяет писать errors.Is(err, ErrHandled).
func (e *APIError) Is(target error) bool {
	return target == ErrHandled && e.Handled
}

// IsHandled проверяет маркер обработанной ошибки.
func IsHandled(err error) bool {
	return errors.Is(err, ErrHandled)
}

// MessageOf возвращает сообщение сервера или текст ошибки.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
