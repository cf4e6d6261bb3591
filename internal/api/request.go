package api

import (
	"net/http"
	"net/url"
	"time"
)

// Request describes one outbound call. Body is held as bytes so the request
// can be re-issued after a token refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// ContentType overrides the default application/json for the body.
	// Multipart requests must set it to the writer's boundary-bearing value.
	ContentType string

	// Multipart marks a large upload: the upload timeout class applies and no
	// content type is defaulted.
	Multipart bool

	// LongRunning marks operations like quiz generation that legitimately
	// exceed the default wait time.
	LongRunning bool

	// Timeout overrides the timeout class entirely when positive.
	Timeout time.Duration
}

// Response is the backend's answer, returned unchanged to the caller.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Timeouts are the per-request wait budgets, one per request class.
type Timeouts struct {
	Default     time.Duration
	Upload      time.Duration
	LongRunning time.Duration
}

// DefaultTimeouts mirror the configuration defaults.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default:     15 * time.Second,
		Upload:      2 * time.Minute,
		LongRunning: 5 * time.Minute,
	}
}

func (t Timeouts) forRequest(req Request) time.Duration {
	switch {
	case req.Timeout > 0:
		return req.Timeout
	case req.LongRunning:
		return t.LongRunning
	case req.Multipart:
		return t.Upload
	default:
		return t.Default
	}
}
