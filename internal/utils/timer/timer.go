// Package timer предоставляет отменяемые отложенные вызовы.
//
// Отмена идемпотентна и, если выполнена до срабатывания, гарантирует,
// что отложенная функция не будет вызвана вовсе.
package timer

import (
	"sync"
	"time"
)

type state int

const (
	statePending state = iota
	stateFired
	stateCancelled
)

// Handle - дескриптор запланированного вызова.
type Handle struct {
	mu    sync.Mutex
	state state
	stop  func() bool
}

func newHandle() *Handle {
	return &Handle{state: statePending}
}

// Cancel отменяет вызов. Возвращает true, если именно этот вызов Cancel
// предотвратил срабатывание. Повторные вызовы возвращают false.
func (h *Handle) Cancel() bool {
	if h == nil {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != statePending {
		return false
	}
	h.state = stateCancelled
	if h.stop != nil {
		h.stop()
	}
	return true
}

// Cancelled сообщает, был ли вызов отменен.
func (h *Handle) Cancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == stateCancelled
}

// Fired сообщает, сработал ли вызов.
func (h *Handle) Fired() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == stateFired
}

// claim переводит дескриптор в состояние "сработал", если он еще не отменен.
func (h *Handle) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != statePending {
		return false
	}
	h.state = stateFired
	return true
}

// Scheduler планирует отложенные вызовы.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) *Handle
}

// Real - планировщик поверх time.AfterFunc.
type Real struct{}

func (Real) AfterFunc(d time.Duration, fn func()) *Handle {
	h := newHandle()

	h.mu.Lock()
	t := time.AfterFunc(d, func() {
		if h.claim() {
			fn()
		}
	})
	h.stop = t.Stop
	h.mu.Unlock()

	return h
}
