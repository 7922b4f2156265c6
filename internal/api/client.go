// Пакет api — HTTP-клиент эндпоинтов резидентского бэкенда.
//
// Ответы аутентификации и профиля намеренно декодируются в слабо
// типизированные структуры: поле ролей исторически приходит в разных
// формах, и его разбор — обязанность вызывающей стороны.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amfitom1ne123-maker/UV/internal/common/logger"
)

// Payload — ответ /api/auth/me и /api/profile.
type Payload struct {
	User    map[string]any `json:"user"`
	Roles   any            `json:"roles"`
	Warning string         `json:"warning,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	initData   string
}

// NewClient создаёт клиент; initData передаётся в заголовке
// X-Telegram-Init-Data каждого запроса.
func NewClient(baseURL, initData string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		initData:   initData,
	}
}

// Me запрашивает идентичность сессии: POST /api/auth/me.
func (c *Client) Me(ctx context.Context) (*Payload, error) {
	return c.payload(ctx, http.MethodPost, "/api/auth/me", nil)
}

// Profile запрашивает сохранённый профиль: GET /api/profile.
func (c *Client) Profile(ctx context.Context) (*Payload, error) {
	return c.payload(ctx, http.MethodGet, "/api/profile", nil)
}

// SaveProfile частично обновляет профиль: POST /api/profile.
func (c *Client) SaveProfile(ctx context.Context, fields map[string]any) (*Payload, error) {
	return c.payload(ctx, http.MethodPost, "/api/profile", fields)
}

// SaveLanguage отправляет код языка (ВЕРХНИЙ регистр, две буквы).
func (c *Client) SaveLanguage(ctx context.Context, code string) error {
	_, err := c.payload(ctx, http.MethodPost, "/api/profile", map[string]any{"language": code})
	return err
}

// Health — необязательная проверка живости, ошибки полностью игнорируются
// вызывающей стороной.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/_diag/health", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) payload(ctx context.Context, method, path string, body any) (*Payload, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var p Payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.initData != "" {
		req.Header.Set("X-Telegram-Init-Data", c.initData)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("api request failed")
		return nil, err
	}
	return resp, nil
}
