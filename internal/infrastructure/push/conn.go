// Package push - долгоживущее соединение с каналом серверных уведомлений.
// Соединение одно на процесс, подписки на темы живут отдельно от него
// и переживают переподключения.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/exp/slog"
	"golang.org/x/net/websocket"
)

const (
	MinBackoff = time.Second
	MaxBackoff = 30 * time.Second

	endpoint = "/socket.io/?EIO=4&transport=websocket"

	// пакеты engine.io
	packetOpen    = '0'
	packetClose   = '1'
	packetPing    = '2'
	packetPong    = '3'
	packetMessage = '4'

	// пакеты socket.io внутри message
	packetConnect    = '0'
	packetDisconnect = '1'
	packetEvent      = '2'
	packetError      = '4'
)

var (
	ErrDisconnected = errors.New("push channel disconnected")
	ErrBadPacket    = errors.New("malformed packet")
)

// Handler получает полезную нагрузку события.
type Handler func(payload json.RawMessage)

type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

type Conn struct {
	url    string
	origin string
	log    *slog.Logger

	minBackoff time.Duration
	maxBackoff time.Duration

	mu       sync.Mutex
	handlers map[string]map[int]Handler
	nextID   int

	connected atomic.Bool
}

// New готовит соединение с сервером base (http, https, ws или wss).
// Подключение выполняет Run.
func New(base string, log *slog.Logger) (*Conn, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора адреса push-канала: %w", err)
	}

	origin := *u
	switch u.Scheme {
	case "http", "ws":
		u.Scheme, origin.Scheme = "ws", "http"
	case "https", "wss":
		u.Scheme, origin.Scheme = "wss", "https"
	default:
		return nil, fmt.Errorf("неподдерживаемая схема push-канала: %q", u.Scheme)
	}
	origin.Path = ""

	return &Conn{
		url:        u.String() + endpoint,
		origin:     origin.String(),
		log:        log.With(slog.String("component", "push")),
		minBackoff: MinBackoff,
		maxBackoff: MaxBackoff,
		handlers:   make(map[string]map[int]Handler),
	}, nil
}

// On подписывает обработчик на тему. Возвращаемая функция снимает подписку,
// повторный вызов безопасен.
func (c *Conn) On(topic string, h func(payload json.RawMessage)) (off func()) {
	c.mu.Lock()
	if c.handlers[topic] == nil {
		c.handlers[topic] = make(map[int]Handler)
	}
	id := c.nextID
	c.nextID++
	c.handlers[topic][id] = h
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.handlers[topic], id)
			if len(c.handlers[topic]) == 0 {
				delete(c.handlers, topic)
			}
		})
	}
}

// Listeners возвращает число подписок на тему.
func (c *Conn) Listeners(topic string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.handlers[topic])
}

func (c *Conn) Connected() bool {
	return c.connected.Load()
}

// Run держит соединение до отмены ctx, переподключаясь с нарастающей паузой.
func (c *Conn) Run(ctx context.Context) error {
	backoff := c.minBackoff
	for {
		started := time.Now()
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}

		// долгая сессия сбрасывает паузу
		if time.Since(started) > c.maxBackoff {
			backoff = c.minBackoff
		}

		c.log.Warn("push channel lost, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

// session обслуживает одно подключение до его обрыва.
func (c *Conn) session(ctx context.Context) error {
	cfg, err := websocket.NewConfig(c.url, c.origin)
	if err != nil {
		return fmt.Errorf("ошибка настройки push-канала: %w", err)
	}

	ws, err := cfg.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("ошибка подключения к push-каналу: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = ws.Close()
		case <-done:
			_ = ws.Close()
		}
	}()

	defer c.connected.Store(false)

	var timeout time.Duration
	for {
		if timeout > 0 {
			_ = ws.SetReadDeadline(time.Now().Add(timeout))
		}

		var packet string
		if err := websocket.Message.Receive(ws, &packet); err != nil {
			return fmt.Errorf("ошибка чтения push-канала: %w", err)
		}
		if packet == "" {
			continue
		}

		switch packet[0] {
		case packetOpen:
			var hs handshake
			if err := json.Unmarshal([]byte(packet[1:]), &hs); err != nil {
				return fmt.Errorf("%w: %v", ErrBadPacket, err)
			}
			timeout = time.Duration(hs.PingInterval+hs.PingTimeout) * time.Millisecond
			if err := websocket.Message.Send(ws, string(packetMessage)+string(packetConnect)); err != nil {
				return fmt.Errorf("ошибка подключения пространства имен: %w", err)
			}
		case packetPing:
			if err := websocket.Message.Send(ws, string(packetPong)+packet[1:]); err != nil {
				return fmt.Errorf("ошибка ответа на ping: %w", err)
			}
		case packetClose:
			return ErrDisconnected
		case packetMessage:
			if err := c.message(packet[1:]); err != nil {
				return err
			}
		}
	}
}

func (c *Conn) message(body string) error {
	if body == "" {
		return nil
	}

	switch body[0] {
	case packetConnect:
		c.connected.Store(true)
		c.log.Info("push channel connected")
	case packetDisconnect:
		return ErrDisconnected
	case packetError:
		return fmt.Errorf("%w: connect refused %s", ErrDisconnected, body[1:])
	case packetEvent:
		topic, payload, err := ParseEvent(body[1:])
		if err != nil {
			c.log.Warn("bad push event", slog.String("error", err.Error()))
			return nil
		}
		c.dispatch(topic, payload)
	}
	return nil
}

// dispatch вызывает обработчики темы в порядке подписки.
func (c *Conn) dispatch(topic string, payload json.RawMessage) {
	c.mu.Lock()
	ids := make([]int, 0, len(c.handlers[topic]))
	for id := range c.handlers[topic] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, c.handlers[topic][id])
	}
	c.mu.Unlock()

	c.log.Debug("push event", slog.String("topic", topic), slog.Int("listeners", len(handlers)))
	for _, h := range handlers {
		h(payload)
	}
}

// ParseEvent разбирает тело события `["topic",payload]` с необязательными
// пространством имен и номером подтверждения перед массивом.
func ParseEvent(body string) (string, json.RawMessage, error) {
	if strings.HasPrefix(body, "/") {
		i := strings.IndexByte(body, ',')
		if i < 0 {
			return "", nil, fmt.Errorf("%w: namespace without body", ErrBadPacket)
		}
		body = body[i+1:]
	}
	body = strings.TrimLeft(body, "0123456789")

	var parts []json.RawMessage
	if err := json.Unmarshal([]byte(body), &parts); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadPacket, err)
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("%w: empty event", ErrBadPacket)
	}

	var topic string
	if err := json.Unmarshal(parts[0], &topic); err != nil {
		return "", nil, fmt.Errorf("%w: topic is not a string", ErrBadPacket)
	}

	payload := json.RawMessage("null")
	if len(parts) > 1 {
		payload = parts[1]
	}
	return topic, payload, nil
}
