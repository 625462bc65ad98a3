// Package notice реализует глобальный канал уведомлений с глубиной 1.
//
// Новое уведомление всегда вытесняет текущее, в том числе отменяемое:
// отложенное действие вытесненного уведомления продолжает работать,
// но его Undo больше недоступно пользователю.
package notice

import (
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"tourdesk/internal/utils/timer"
)

const (
	// Depth - глубина канала. Слот единственный.
	Depth = 1
	// AutoExpire - время жизни обычного (не отменяемого) уведомления.
	AutoExpire = 4 * time.Second
)

type Channel struct {
	mu        sync.Mutex
	sched     timer.Scheduler
	log       *slog.Logger
	slot      []Notice
	seq       uint64
	expiry    *timer.Handle
	listeners map[int]func(Event)
	nextID    int
}

func NewChannel(sched timer.Scheduler, log *slog.Logger) *Channel {
	return &Channel{
		sched:     sched,
		log:       log.With(slog.String("component", "notice")),
		slot:      make([]Notice, 0, Depth),
		listeners: make(map[int]func(Event)),
	}
}

// Show публикует уведомление, вытесняя текущее.
func (c *Channel) Show(n Notice) {
	c.mu.Lock()
	c.expiry.Cancel()
	c.expiry = nil

	if len(c.slot) == Depth {
		c.slot = c.slot[1:]
	}
	c.slot = append(c.slot, n)
	c.seq++
	seq := c.seq

	if !n.Undoable {
		c.expiry = c.sched.AfterFunc(AutoExpire, func() {
			c.clearIf(seq)
		})
	}
	listeners := c.snapshot()
	c.mu.Unlock()

	c.log.Debug("notice shown", slog.String("severity", string(n.Severity)), slog.String("content", n.Content))
	notify(listeners, Event{Notice: n})
}

func (c *Channel) Success(content string) {
	c.Show(Notice{Content: content, Severity: SeveritySuccess})
}

func (c *Channel) Error(content string) {
	c.Show(Notice{Content: content, Severity: SeverityError})
}

func (c *Channel) Info(content string) {
	c.Show(Notice{Content: content, Severity: SeverityInfo})
}

// Clear очищает слот независимо от того, кто его занял.
func (c *Channel) Clear() {
	c.mu.Lock()
	if len(c.slot) == 0 {
		c.mu.Unlock()
		return
	}
	c.reset()
	listeners := c.snapshot()
	c.mu.Unlock()

	notify(listeners, Event{Cleared: true})
}

// Undo отменяет действие текущего отменяемого уведомления и очищает слот.
// Возвращает true, если отложенное действие было предотвращено.
func (c *Channel) Undo() bool {
	c.mu.Lock()
	if len(c.slot) == 0 || !c.slot[0].Undoable {
		c.mu.Unlock()
		return false
	}
	canceller := c.slot[0].Cancel
	c.mu.Unlock()

	prevented := false
	if canceller != nil {
		prevented = canceller.Cancel()
	}
	c.Clear()

	return prevented
}

// Current возвращает содержимое слота.
func (c *Channel) Current() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.slot) == 0 {
		return Notice{}, false
	}
	return c.slot[0], true
}

// Subscribe подписывает на изменения слота. Обработчик вызывается
// синхронно, вне блокировки канала.
func (c *Channel) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

func (c *Channel) clearIf(seq uint64) {
	c.mu.Lock()
	if c.seq != seq || len(c.slot) == 0 {
		c.mu.Unlock()
		return
	}
	c.reset()
	listeners := c.snapshot()
	c.mu.Unlock()

	notify(listeners, Event{Cleared: true})
}

// reset вызывается под блокировкой.
func (c *Channel) reset() {
	c.expiry.Cancel()
	c.expiry = nil
	c.slot = c.slot[:0]
	c.seq++
}

func (c *Channel) snapshot() []func(Event) {
	out := make([]func(Event), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(Event), ev Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}
