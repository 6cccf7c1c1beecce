package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

// Error is a non-2xx response from the pharmacy API. The server payload is
// carried untouched so callers can extract a human-readable message.
type Error struct {
	Status int
	Method string
	Path   string
	Body   []byte
}

func (e *Error) Error() string {
	if msg := e.Detail(); msg != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

// Detail extracts the backend's message from the error payload. The
// pharmacy API wraps errors as {"detail": "..."}; a few infrastructure
// layers use {"error": "..."} instead. Returns "" when neither is present,
// in which case the caller falls back to a generic message.
func (e *Error) Detail() string {
	var envelope struct {
		Detail string `json:"detail"`
		Err    string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err != nil {
		return ""
	}
	if envelope.Detail != "" {
		return envelope.Detail
	}
	return envelope.Err
}

// Is maps HTTP status classes onto the shared domain sentinels so callers
// can use errors.Is instead of switching on status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case domain.ErrUnauthenticated:
		return e.Status == 401
	case domain.ErrForbidden:
		return e.Status == 403
	case domain.ErrNotFound:
		return e.Status == 404
	case domain.ErrConflict:
		return e.Status == 409
	case domain.ErrInvalidInput:
		return e.Status == 400 || e.Status == 422
	}
	return false
}

// Message returns a display string for any error coming out of the client:
// the server's detail when present, otherwise fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if d := apiErr.Detail(); d != "" {
			return d
		}
	}
	return fallback
}
