package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const userAgent = "TourDesk-Client/1.0"

// Encoder - тело запроса со своим форматом (например, multipart).
// Остальные тела сериализуются в JSON.
type Encoder interface {
	Encode() (contentType string, body io.Reader, err error)
}

// Client - единственный исходящий HTTP шлюз клиента.
type Client struct {
	client     *http.Client
	baseURL    string
	session    Session
	classifier *Classifier
	log        *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, session Session, classifier *Classifier, log *slog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		baseURL:    baseURL,
		session:    session,
		classifier: classifier,
		log:        log.With(slog.String("component", "transport")),
	}
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodDelete, path, body, out)
}

// Do выполняет запрос. Тело ответа декодируется в out, если он не nil.
// Все сбои проходят через классификатор.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	reqBody, contentType, err := encodeBody(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, gen := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("Отправка запроса",
		slog.String("method", method),
		slog.String("url", req.URL.String()),
		slog.String("request_id", requestID),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.classifier.Classify(Attempt{Gen: gen, HadToken: token != "", Cause: err})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	c.log.Debug("Получен ответ",
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &errResp)
		if errResp.Message == "" {
			errResp.Message = errResp.Error
		}

		return c.classifier.Classify(Attempt{
			Status:   resp.StatusCode,
			Reason:   errResp.Reason,
			Message:  errResp.Message,
			Gen:      gen,
			HadToken: token != "",
		})
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case Encoder:
		contentType, r, err := b.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("ошибка кодирования тела запроса: %w", err)
		}
		return r, contentType, nil
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		return bytes.NewReader(jsonData), "application/json", nil
	}
}
