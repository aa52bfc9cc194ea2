package commerce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("commerce api: unauthorized")
	ErrNotFound     = errors.New("commerce api: not found")
)

// APIError is a non-2xx response from the commerce API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("commerce api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("commerce api: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// healthyUpstream reports errors that say nothing about upstream health:
// 4xx responses and requests the caller gave up on. They must not open the
// circuit breaker.
func healthyUpstream(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
