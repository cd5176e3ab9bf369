package transport

import (
	"errors"
	"fmt"
)

// ErrTransport matches every failure raised by the client: non-2xx
// responses and network or encoding errors alike.
var ErrTransport = errors.New("transport failure")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: upstream status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: upstream status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is makes StatusError match ErrTransport.
func (e *StatusError) Is(target error) bool { return target == ErrTransport }

// RequestError is a failure before a status code was received.
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

// Unwrap exposes the cause (context cancellation, dial errors, ...).
func (e *RequestError) Unwrap() error { return e.Err }

// Is makes RequestError match ErrTransport.
func (e *RequestError) Is(target error) bool { return target == ErrTransport }

// StatusCode extracts the upstream status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
