package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError captures a non-2xx backend response. The original status and body
// are preserved so callers see the failure unchanged.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
}

// IsAuthFailure reports whether err is an expired/invalid-credentials failure,
// the only class that enters the refresh path. 403 is an authorization
// failure and is surfaced as-is; network and timeout errors never qualify.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an
// APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return 0
	}
	return apiErr.StatusCode
}
