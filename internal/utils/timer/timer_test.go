package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_FiresInOrder(t *testing.T) {
	m := NewManual()
	var order []int

	m.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	m.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	m.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	m.Advance(2 * time.Second)
	assert.Equal(t, []int{1, 2}, order)

	m.Advance(time.Second)
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Zero(t, m.Pending())
}

func TestManual_NestedScheduling(t *testing.T) {
	m := NewManual()
	fired := false

	m.AfterFunc(time.Second, func() {
		m.AfterFunc(time.Second, func() { fired = true })
	})

	m.Advance(1500 * time.Millisecond)
	assert.False(t, fired)

	m.Advance(500 * time.Millisecond)
	assert.True(t, fired)
}

func TestHandle_CancelPreventsCall(t *testing.T) {
	m := NewManual()
	called := false

	h := m.AfterFunc(time.Second, func() { called = true })

	assert.True(t, h.Cancel())
	assert.False(t, h.Cancel(), "повторная отмена должна быть no-op")
	assert.True(t, h.Cancelled())

	m.Advance(time.Minute)
	assert.False(t, called)
	assert.False(t, h.Fired())
}

func TestHandle_CancelAfterFire(t *testing.T) {
	m := NewManual()
	h := m.AfterFunc(time.Second, func() {})

	m.Advance(time.Second)

	assert.True(t, h.Fired())
	assert.False(t, h.Cancel())
}

func TestHandle_NilCancel(t *testing.T) {
	var h *Handle
	assert.False(t, h.Cancel())
}

func TestReal_FiresAndCancels(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{})

	Real{}.AfterFunc(10*time.Millisecond, func() {
		calls.Add(1)
		close(done)
	})

	cancelled := Real{}.AfterFunc(10*time.Millisecond, func() { calls.Add(100) })
	require.True(t, cancelled.Cancel())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("таймер не сработал")
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}
