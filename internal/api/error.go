package api

import "fmt"

// Error is a non-2xx response from the gateway. It keeps the raw body and
// the Retry-After header so callers can turn it into a user-facing message
// with ResolveMessage.
type Error struct {
	RetryAfter string
	Body       []byte
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, string(e.Body))
}
