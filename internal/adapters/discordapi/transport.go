package discordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://discord.com/api/v10"
	DefaultUserAgent = "DiscordBot (https://github.com/jose-valero/soundboard-bot, 1.0)"
)

// Client habla con la API REST de Discord autenticado como bot.
// Sin backoff de rate limit: un 429 vuelve como *APIError.
type Client struct {
	auth      string
	http      *http.Client
	baseURL   string
	userAgent string
}

// New recibe el header Authorization completo ("Bot <token>").
func New(auth string, opts ...Option) *Client {
	c := &Client{
		auth:      auth,
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// doJSON: serializa in (si hay), agrega Authorization y convierte todo status
// no-2xx en *APIError con el método y el path del request.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("discord encode: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("discord http: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return apiError(req, res, bytes.TrimSpace(b))
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
