package calendar

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/fetch"
	"tourdesk/internal/domain/record"
	"tourdesk/internal/infrastructure/transport"
)

// DefaultOffset - фиксированный сдвиг между отображением и опорной зоной
// сервера. Это константа, а не вычисляемое преобразование часовых поясов.
const DefaultOffset = 4 * time.Hour

const (
	MsgAddFailed    = "Failed to add event. Please try again."
	MsgUpdateFailed = "Failed to update event. Please try again."
	MsgDeleteFailed = "Failed to delete event. Please try again."
)

// Form - поля формы события. Даты в формате record.FormTimeLayout.
type Form struct {
	Title string
	Start string
	End   string
	Level Level
}

// FieldErrors отмечает незаполненные обязательные поля.
type FieldErrors struct {
	Title bool
	Start bool
	Level bool
}

func (e FieldErrors) Any() bool {
	return e.Title || e.Start || e.Level
}

func (e FieldErrors) Error() string {
	var missing []string
	if e.Title {
		missing = append(missing, "title")
	}
	if e.Start {
		missing = append(missing, "start")
	}
	if e.Level {
		missing = append(missing, "level")
	}
	return fmt.Sprintf("%s: missing %s", ErrInvalidEvent, strings.Join(missing, ", "))
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidEvent
}

// Editor - форма добавления и изменения событий.
type Editor struct {
	sync      *Sync
	requester fetch.Requester
	notices   Notifier
	offset    time.Duration
	now       func() time.Time
	log       *slog.Logger

	mu       sync.Mutex
	open     bool
	selected *Event
	form     Form
	errs     FieldErrors
}

func NewEditor(s *Sync, requester fetch.Requester, notices Notifier, offset time.Duration, log *slog.Logger) *Editor {
	return &Editor{
		sync:      s,
		requester: requester,
		notices:   notices,
		offset:    offset,
		now:       time.Now,
		log:       log.With(slog.String("component", "calendar_editor")),
	}
}

// ToForm сдвигает время на offset для показа в форме.
func ToForm(t time.Time, offset time.Duration) string {
	if t.IsZero() {
		return ""
	}
	return t.Add(offset).UTC().Format(record.FormTimeLayout)
}

// FromForm возвращает время формы обратно, вычитая offset.
func FromForm(s string, offset time.Duration) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(record.FormTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad time %q", ErrInvalidEvent, s)
	}
	return t.Add(-offset), nil
}

// Select открывает пустую форму для выбранного диапазона.
// Диапазоны в прошлом не допускаются.
func (e *Editor) Select(start, end time.Time) error {
	if start.Before(e.now()) {
		return ErrPastSelection
	}
	if end.IsZero() {
		end = start
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
	e.form.Start = ToForm(start, e.offset)
	e.form.End = ToForm(end, e.offset)
	e.open = true
	return nil
}

// Open открывает форму существующего события.
func (e *Editor) Open(id string) error {
	ev, ok := e.sync.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
	e.selected = &ev
	e.form = Form{
		Title: ev.Title,
		Start: ToForm(ev.Start, e.offset),
		End:   ToForm(ev.End, e.offset),
		Level: ev.Level,
	}
	e.open = true
	return nil
}

func (e *Editor) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

func (e *Editor) Form() Form {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Errors возвращает отметки незаполненных полей последней попытки.
func (e *Editor) Errors() FieldErrors {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errs
}

func (e *Editor) SetForm(f Form) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNothingOpen
	}
	e.form = f
	return nil
}

// Close закрывает форму и сбрасывает ее поля.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

type eventBody struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Level     Level  `json:"event_level"`
}

// Save создает или обновляет событие и перечитывает календарь.
// При незаполненных полях форма остается открытой.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if !e.open {
		e.mu.Unlock()
		return ErrNothingOpen
	}
	form := e.form
	selected := e.selected

	e.errs = FieldErrors{
		Title: strings.TrimSpace(form.Title) == "",
		Start: form.Start == "",
		Level: form.Level == "",
	}
	errs := e.errs
	e.mu.Unlock()

	if errs.Any() {
		return errs
	}

	body, err := e.body(form)
	if err != nil {
		return err
	}

	method, path, failMsg := http.MethodPost, Path, MsgAddFailed
	if selected != nil {
		method, path, failMsg = http.MethodPut, Path+"/"+selected.ID.String(), MsgUpdateFailed
	}

	if err := e.requester.Do(ctx, method, path, body, nil); err != nil {
		e.fail(err, failMsg)
		return err
	}

	_ = e.sync.Refetch(ctx)
	e.Close()
	return nil
}

// Remove удаляет открытое событие.
func (e *Editor) Remove(ctx context.Context) error {
	e.mu.Lock()
	selected := e.selected
	e.mu.Unlock()

	if selected == nil {
		return ErrNothingOpen
	}

	if err := e.requester.Do(ctx, http.MethodDelete, Path+"/"+selected.ID.String(), nil, nil); err != nil {
		e.fail(err, MsgDeleteFailed)
		return err
	}

	_ = e.sync.Refetch(ctx)
	e.Close()
	return nil
}

func (e *Editor) body(f Form) (eventBody, error) {
	start, err := FromForm(f.Start, e.offset)
	if err != nil {
		return eventBody{}, err
	}
	end, err := FromForm(f.End, e.offset)
	if err != nil {
		return eventBody{}, err
	}

	b := eventBody{Title: f.Title, Level: f.Level}
	if !start.IsZero() {
		b.StartDate = start.UTC().Format(time.RFC3339)
	}
	if !end.IsZero() {
		b.EndDate = end.UTC().Format(time.RFC3339)
	}
	return b, nil
}

func (e *Editor) fail(err error, msg string) {
	e.Close()
	if transport.IsHandled(err) {
		return
	}
	e.log.Warn("calendar request failed", slog.String("error", err.Error()))
	e.notices.Error(msg)
}

// reset вызывается под блокировкой.
func (e *Editor) reset() {
	e.open = false
	e.selected = nil
	e.form = Form{}
	e.errs = FieldErrors{}
}
