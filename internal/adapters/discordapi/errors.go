package discordapi

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrNotFound = errors.New("discord: not found")

// APIError es una respuesta no-2xx. Un 404 además matchea ErrNotFound con errors.Is.
type APIError struct {
	Method     string
	Path       string
	Status     int
	Body       string
	RetryAfter string // sólo viene en los 429
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discord %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

func apiError(req *http.Request, res *http.Response, body []byte) *APIError {
	return &APIError{
		Method:     req.Method,
		Path:       req.URL.Path,
		Status:     res.StatusCode,
		Body:       string(body),
		RetryAfter: res.Header.Get("Retry-After"),
	}
}
