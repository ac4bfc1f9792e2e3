package discordapi

import "net/http"

// Option ajusta el Client en New.
type Option func(*Client)

// WithHTTPClient reemplaza el cliente por defecto (timeout 10s).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL apunta a otra API (tests, proxy). Vacío deja la default.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent: Discord pide "DiscordBot (url, version)" en cada request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}
