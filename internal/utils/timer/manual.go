package timer

import (
	"sort"
	"sync"
	"time"
)

// Manual - планировщик с ручным управлением временем для тестов.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	entries []*manualEntry
}

type manualEntry struct {
	at     time.Time
	seq    int
	fn     func()
	handle *Handle
}

func NewManual() *Manual {
	return &Manual{now: time.Unix(0, 0)}
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := newHandle()
	m.seq++
	m.entries = append(m.entries, &manualEntry{
		at:     m.now.Add(d),
		seq:    m.seq,
		fn:     fn,
		handle: h,
	})
	return h
}

// Advance сдвигает время и синхронно выполняет все созревшие вызовы
// в порядке их срока. Вызовы, запланированные во время Advance,
// тоже выполняются, если укладываются в окно.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.popDue(deadline)
		if next == nil {
			m.now = deadline
			m.mu.Unlock()
			return
		}
		m.now = next.at
		m.mu.Unlock()

		if next.handle.claim() {
			next.fn()
		}
	}
}

// Pending возвращает число еще не сработавших и не отмененных вызовов.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		e.handle.mu.Lock()
		if e.handle.state == statePending {
			n++
		}
		e.handle.mu.Unlock()
	}
	return n
}

func (m *Manual) popDue(deadline time.Time) *manualEntry {
	sort.SliceStable(m.entries, func(i, j int) bool {
		if m.entries[i].at.Equal(m.entries[j].at) {
			return m.entries[i].seq < m.entries[j].seq
		}
		return m.entries[i].at.Before(m.entries[j].at)
	})

	for i, e := range m.entries {
		if e.at.After(deadline) {
			return nil
		}
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		return e
	}
	return nil
}
