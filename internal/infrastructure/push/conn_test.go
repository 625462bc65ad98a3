package push

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"tourdesk/internal/utils/logger"
)

// script описывает поведение сервера на одном подключении.
type script func(t *testing.T, ws *websocket.Conn)

func handshakeServer(t *testing.T, ws *websocket.Conn) {
	t.Helper()
	assert.NoError(t, websocket.Message.Send(ws, `0{"sid":"abc","pingInterval":25000,"pingTimeout":20000}`))

	var connect string
	assert.NoError(t, websocket.Message.Receive(ws, &connect))
	assert.Equal(t, "40", connect)

	assert.NoError(t, websocket.Message.Send(ws, `40{"sid":"xyz"}`))
}

func newServer(t *testing.T, scripts ...script) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var conns atomic.Int32

	srv := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		n := int(conns.Add(1)) - 1
		if n >= len(scripts) {
			// держим соединение до закрытия клиентом
			var s string
			for websocket.Message.Receive(ws, &s) == nil {
			}
			return
		}
		scripts[n](t, ws)
	}))
	t.Cleanup(srv.Close)
	return srv, &conns
}

func newConn(t *testing.T, srv *httptest.Server) *Conn {
	t.Helper()
	c, err := New(srv.URL, logger.Discard())
	require.NoError(t, err)
	c.minBackoff = 10 * time.Millisecond
	c.maxBackoff = 40 * time.Millisecond
	return c
}

func run(t *testing.T, c *Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("Run did not stop")
		}
	})
}

type collector struct {
	mu   sync.Mutex
	seen []string
}

func (c *collector) handler(prefix string) Handler {
	return func(payload json.RawMessage) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.seen = append(c.seen, prefix+string(payload))
	}
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

func TestNew(t *testing.T) {
	tests := []struct {
		base    string
		want    string
		wantErr bool
	}{
		{base: "http://localhost:5500", want: "ws://localhost:5500/socket.io/?EIO=4&transport=websocket"},
		{base: "https://api.example.com/", want: "wss://api.example.com/socket.io/?EIO=4&transport=websocket"},
		{base: "ws://localhost:5500", want: "ws://localhost:5500/socket.io/?EIO=4&transport=websocket"},
		{base: "ftp://localhost", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			c, err := New(tt.base, logger.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.url)
		})
	}
}

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		topic   string
		payload string
		wantErr bool
	}{
		{name: "plain", body: `["event:created",{"id":1}]`, topic: "event:created", payload: `{"id":1}`},
		{name: "namespace and ack", body: `/admin,17["event:deleted",{"id":"5"}]`, topic: "event:deleted", payload: `{"id":"5"}`},
		{name: "ack only", body: `3["ping"]`, topic: "ping", payload: `null`},
		{name: "not array", body: `{"a":1}`, wantErr: true},
		{name: "empty", body: `[]`, wantErr: true},
		{name: "numeric topic", body: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, payload, err := ParseEvent(tt.body)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadPacket)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.topic, topic)
			assert.JSONEq(t, tt.payload, string(payload))
		})
	}
}

func TestRun_DispatchesInOrderAndAnswersPing(t *testing.T) {
	pong := make(chan string, 1)
	srv, _ := newServer(t, func(t *testing.T, ws *websocket.Conn) {
		handshakeServer(t, ws)
		_ = websocket.Message.Send(ws, `42["event:created",{"id":1}]`)
		_ = websocket.Message.Send(ws, `42["other",{}]`)
		_ = websocket.Message.Send(ws, `42["event:created",{"id":2}]`)
		_ = websocket.Message.Send(ws, "2")

		var reply string
		if websocket.Message.Receive(ws, &reply) == nil {
			pong <- reply
		}
		for websocket.Message.Receive(ws, &reply) == nil {
		}
	})

	c := newConn(t, srv)
	col := &collector{}
	c.On("event:created", col.handler("a"))
	c.On("event:created", col.handler("b"))
	run(t, c)

	select {
	case reply := <-pong:
		assert.Equal(t, "3", reply)
	case <-time.After(2 * time.Second):
		t.Fatal("no pong")
	}

	assert.Eventually(t, func() bool { return len(col.all()) == 4 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{`a{"id":1}`, `b{"id":1}`, `a{"id":2}`, `b{"id":2}`}, col.all())
	assert.True(t, c.Connected())
}

func TestRun_ListenersSurviveReconnect(t *testing.T) {
	srv, conns := newServer(t,
		func(t *testing.T, ws *websocket.Conn) {
			handshakeServer(t, ws)
			_ = websocket.Message.Send(ws, `42["event:deleted",{"id":1}]`)
			_ = websocket.Message.Send(ws, "41")
		},
		func(t *testing.T, ws *websocket.Conn) {
			handshakeServer(t, ws)
			_ = websocket.Message.Send(ws, `42["event:deleted",{"id":2}]`)
			var s string
			for websocket.Message.Receive(ws, &s) == nil {
			}
		},
	)

	c := newConn(t, srv)
	col := &collector{}
	c.On("event:deleted", col.handler(""))
	run(t, c)

	assert.Eventually(t, func() bool { return len(col.all()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{`{"id":1}`, `{"id":2}`}, col.all())
	assert.GreaterOrEqual(t, conns.Load(), int32(2))
}

func TestOn_Off(t *testing.T) {
	c, err := New("http://localhost:1", logger.Discard())
	require.NoError(t, err)

	col := &collector{}
	off := c.On("event:updated", col.handler(""))
	keep := c.On("event:updated", col.handler("k"))
	assert.Equal(t, 2, c.Listeners("event:updated"))

	off()
	off()
	assert.Equal(t, 1, c.Listeners("event:updated"))

	c.dispatch("event:updated", json.RawMessage(`1`))
	assert.Equal(t, []string{"k1"}, col.all())

	keep()
	assert.Zero(t, c.Listeners("event:updated"))
}

func TestRun_StopsOnCancelWhileUnreachable(t *testing.T) {
	c, err := New("http://127.0.0.1:1", logger.Discard())
	require.NoError(t, err)
	c.minBackoff = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, c.Run(ctx))
	assert.False(t, c.Connected())
}
