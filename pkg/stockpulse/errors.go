package stockpulse

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched through errors.Is on an *Error.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")

	// ErrUsernameTaken is returned by Register when the backend answers 409.
	ErrUsernameTaken = errors.New("username already exists")
)

// Error is returned for any failed exchange with the backend. StatusCode is
// zero when the request never produced a response (transport failure or an
// undecodable body on a 2xx).
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string // server-provided message, if any
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is maps well-known status codes onto the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	}
	return false
}

// ServerMessage returns the message the backend attached to err, or "" if
// err does not carry one.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
