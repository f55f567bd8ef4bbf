package regask

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by *APIError. Use errors.Is() to check.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("regask: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("regask: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is maps the HTTP status onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == 400
	case ErrUnauthorized:
		return e.StatusCode == 401
	case ErrInternal:
		return e.StatusCode >= 500 && e.StatusCode != 503
	case ErrUnavailable:
		return e.StatusCode == 503
	}
	return false
}
