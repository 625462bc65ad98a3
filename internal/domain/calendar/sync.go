// Package calendar держит локальную копию событий календаря в согласии
// с сервером: полная загрузка при подключении вида плюс точечные
// изменения из канала push-уведомлений.
package calendar

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/exp/slog"

	"tourdesk/internal/domain/fetch"
)

const (
	Path = "/events"

	TopicCreated = "event:created"
	TopicUpdated = "event:updated"
	TopicDeleted = "event:deleted"

	MsgLoadFailed = "Failed to load events. Please try again."
)

// Subscriber - долгоживущее push-соединение.
type Subscriber interface {
	On(topic string, handler func(payload json.RawMessage)) (off func())
}

// Notifier - часть канала уведомлений, нужная календарю.
type Notifier interface {
	Error(content string)
}

type Sync struct {
	requester fetch.Requester
	push      Subscriber
	notices   Notifier
	log       *slog.Logger

	mu        sync.Mutex
	events    []Event
	offs      []func()
	listeners map[int]func([]Event)
	nextID    int
}

func NewSync(requester fetch.Requester, push Subscriber, notices Notifier, log *slog.Logger) *Sync {
	return &Sync{
		requester: requester,
		push:      push,
		notices:   notices,
		log:       log.With(slog.String("component", "calendar")),
		listeners: make(map[int]func([]Event)),
	}
}

// Mount подписывается на три темы событий и загружает все события.
// Подписки живут до Unmount, само соединение им не принадлежит.
// Если загрузка не удалась, подписки, сделанные этим вызовом, снимаются.
func (s *Sync) Mount(ctx context.Context) error {
	s.mu.Lock()
	subscribed := s.offs == nil
	if subscribed {
		s.offs = []func(){
			s.push.On(TopicCreated, s.onCreated),
			s.push.On(TopicUpdated, s.onUpdated),
			s.push.On(TopicDeleted, s.onDeleted),
		}
	}
	s.mu.Unlock()

	if err := s.Refetch(ctx); err != nil {
		if subscribed {
			s.Unmount()
		}
		return err
	}
	return nil
}

// Unmount снимает подписки на темы. Повторный вызов безопасен.
func (s *Sync) Unmount() {
	s.mu.Lock()
	offs := s.offs
	s.offs = nil
	s.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Mounted сообщает, есть ли активные подписки.
func (s *Sync) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offs != nil
}

// Refetch полностью заменяет локальную копию событий.
func (s *Sync) Refetch(ctx context.Context) error {
	resp := fetch.Fetch[[]Wire](ctx, s.requester, Path)
	if resp.Err != nil {
		s.log.Warn("failed to load events", slog.String("error", resp.Err.Error()))
		if !resp.Handled() {
			s.notices.Error(MsgLoadFailed)
		}
		return resp.Err
	}

	wires := resp.Data.OrEmpty()
	events := make([]Event, 0, len(wires))
	for _, w := range wires {
		events = append(events, Normalize(w))
	}

	s.update(func([]Event) []Event { return events })
	return nil
}

// Events возвращает копию локальных событий.
func (s *Sync) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// Find ищет событие по строковому id.
func (s *Sync) Find(id string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range s.events {
		if ev.ID.String() == id {
			return ev, true
		}
	}
	return Event{}, false
}

// OnChange подписывает на изменения локальной копии.
func (s *Sync) OnChange(fn func([]Event)) (off func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// onCreated добавляет событие в конец без проверки на дубликаты.
func (s *Sync) onCreated(payload json.RawMessage) {
	var w Wire
	if err := json.Unmarshal(payload, &w); err != nil {
		s.log.Warn("bad created payload", slog.String("error", err.Error()))
		return
	}
	ev := Normalize(w)
	s.update(func(events []Event) []Event {
		return append(events, ev)
	})
}

// onUpdated заменяет события со строго совпадающим id.
func (s *Sync) onUpdated(payload json.RawMessage) {
	var w Wire
	if err := json.Unmarshal(payload, &w); err != nil {
		s.log.Warn("bad updated payload", slog.String("error", err.Error()))
		return
	}
	ev := Normalize(w)
	s.update(func(events []Event) []Event {
		out := make([]Event, len(events))
		for i, cur := range events {
			if cur.ID.Equal(ev.ID) {
				cur = ev
			}
			out[i] = cur
		}
		return out
	})
}

// onDeleted удаляет события, сравнивая id как строки.
func (s *Sync) onDeleted(payload json.RawMessage) {
	var body struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		s.log.Warn("bad deleted payload", slog.String("error", err.Error()))
		return
	}
	s.update(func(events []Event) []Event {
		out := make([]Event, 0, len(events))
		for _, cur := range events {
			if !cur.ID.SameAs(body.ID) {
				out = append(out, cur)
			}
		}
		return out
	})
}

func (s *Sync) update(fn func([]Event) []Event) {
	s.mu.Lock()
	s.events = fn(s.events)
	snapshot := append([]Event(nil), s.events...)
	listeners := make([]func([]Event), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}
