package transport

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/exp/slog"
)

const (
	MsgSessionExpired = "Session expired"
	MsgAccountBlocked = "Account is blocked"
	MsgAccessDenied   = "Access denied"
	MsgNoConnection   = "Cannot connect to server"

	reasonBlocked = "blocked"
)

// Session - источник токена и точка принудительного выхода.
type Session interface {
	// Token возвращает текущий токен и поколение сессии.
	Token() (string, uint64)
	// InvalidateIf завершает сессию, если поколение не изменилось.
	// true означает, что сессия была завершена именно этим вызовом.
	InvalidateIf(gen uint64) bool
}

// Notifier - канал пользовательских уведомлений.
type Notifier interface {
	Error(content string)
}

// Classifier превращает сбои запросов в ошибки и централизованно
// уведомляет пользователя об ошибках авторизации и связи.
type Classifier struct {
	session Session
	notices Notifier
	log     *slog.Logger
}

func NewClassifier(session Session, notices Notifier, log *slog.Logger) *Classifier {
	return &Classifier{
		session: session,
		notices: notices,
		log:     log.With(slog.String("component", "classifier")),
	}
}

// Attempt описывает один выполненный запрос.
type Attempt struct {
	Status   int
	Reason   string
	Message  string
	Gen      uint64
	HadToken bool
	Cause    error
}

// Classify возвращает ошибку для неуспешной попытки.
func (c *Classifier) Classify(a Attempt) error {
	if a.Cause != nil {
		if errors.Is(a.Cause, context.Canceled) {
			return &APIError{Message: "request cancelled", Err: a.Cause}
		}
		c.log.Warn("server unreachable", slog.String("error", a.Cause.Error()))
		c.forceLogout(a, MsgNoConnection)
		return &APIError{Message: MsgNoConnection, Handled: true, Err: errors.Join(ErrNoResponse, a.Cause)}
	}

	apiErr := &APIError{Status: a.Status, Reason: a.Reason, Message: a.Message}

	switch {
	case a.Status == http.StatusUnauthorized:
		c.forceLogout(a, MsgSessionExpired)
		apiErr.Handled = true
	case a.Status == http.StatusForbidden && a.Reason == reasonBlocked:
		c.forceLogout(a, MsgAccountBlocked)
		apiErr.Handled = true
	case a.Status == http.StatusForbidden:
		msg := a.Message
		if msg == "" {
			msg = MsgAccessDenied
		}
		c.notices.Error(msg)
		apiErr.Handled = true
	}

	if apiErr.Handled {
		c.log.Warn("request failed, handled centrally",
			slog.Int("status", a.Status),
			slog.String("reason", a.Reason),
		)
	}

	return apiErr
}

// forceLogout завершает сессию и показывает одно уведомление на одно поколение
// сессии, сколько бы параллельных запросов ни упало одновременно.
func (c *Classifier) forceLogout(a Attempt, msg string) {
	if a.HadToken {
		if c.session.InvalidateIf(a.Gen) {
			c.notices.Error(msg)
		}
		return
	}
	c.notices.Error(msg)
}
