package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Category groups provider failures for callers that present them.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryRateLimit  Category = "rate_limit"
	CategoryBadRequest Category = "bad_request"
	CategoryNetwork    Category = "network"
	CategoryServer     Category = "server"
	CategoryUnknown    Category = "unknown"
)

// ProviderError is the single error shape surfaced by every Client.
type ProviderError struct {
	Provider   string
	Category   Category
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s error (http %d): %v", e.Provider, e.Category, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s error: %v", e.Provider, e.Category, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// AsProviderError reports whether err wraps a ProviderError.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// CategoryForStatus maps an HTTP status code from a provider to a Category.
func CategoryForStatus(status int) Category {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CategoryAuth
	case status == http.StatusTooManyRequests:
		return CategoryRateLimit
	case status >= 500:
		return CategoryServer
	case status >= 400:
		return CategoryBadRequest
	default:
		return CategoryUnknown
	}
}

// StatusError builds a ProviderError for a non-2xx provider response.
func StatusError(provider string, status int, err error) *ProviderError {
	return &ProviderError{Provider: provider, Category: CategoryForStatus(status), StatusCode: status, Err: err}
}

// TransportError builds a ProviderError for a failed round trip.
func TransportError(provider string, err error) *ProviderError {
	category := CategoryUnknown
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		category = CategoryNetwork
	case errors.As(err, &netErr):
		category = CategoryNetwork
	}
	return &ProviderError{Provider: provider, Category: category, Err: err}
}
