package domain

import "errors"

// Sentinel errors shared across the client. The API wrapper maps HTTP status
// classes onto these so callers can branch with errors.Is without inspecting
// status codes themselves.
var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
)
