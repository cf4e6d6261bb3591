// Package api implements the authenticated HTTP client: bearer-token
// injection, per-class wait budgets, and transparent exactly-once recovery
// from an expired access token through a coalesced refresh cycle.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quizdeck/quizdeck-go/internal/auth"
	"github.com/quizdeck/quizdeck-go/internal/credentials"
	"github.com/quizdeck/quizdeck-go/internal/session"
)

// HTTPClient is an interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Refresher exchanges a refresh token for a new token pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
}

type Client struct {
	baseURL    string
	httpClient HTTPClient
	store      credentials.Store
	refresher  Refresher
	logout     *session.Broadcaster
	timeouts   Timeouts
	logger     zerolog.Logger

	// mu guards cycle, the refresh singleton.
	mu    sync.Mutex
	cycle *refreshCycle
}

type Options struct {
	BaseURL    string
	HTTPClient HTTPClient
	Store      credentials.Store
	Refresher  Refresher
	Logout     *session.Broadcaster
	Timeouts   Timeouts
	Logger     zerolog.Logger
}

func New(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	def := DefaultTimeouts()
	if opts.Timeouts.Default == 0 {
		opts.Timeouts.Default = def.Default
	}
	if opts.Timeouts.Upload == 0 {
		opts.Timeouts.Upload = def.Upload
	}
	if opts.Timeouts.LongRunning == 0 {
		opts.Timeouts.LongRunning = def.LongRunning
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		store:      opts.Store,
		refresher:  opts.Refresher,
		logout:     opts.Logout,
		timeouts:   opts.Timeouts,
		logger:     opts.Logger,
	}
}

// Do sends the request with the current access token attached. A 401 on the
// first attempt triggers the refresh flow; any second failure is final.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.do(ctx, req, false)
}

// do runs the per-request state machine. retried is the retry marker: once
// set, an authentication failure can never re-enter the refresh branch.
func (c *Client) do(ctx context.Context, req Request, retried bool) (*Response, error) {
	sentWith := c.store.AccessToken()
	resp, err := c.execute(ctx, req, sentWith)
	if err != nil {
		// Network and timeout failures are not authentication failures and
		// never enter the refresh path.
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	failure := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	if resp.StatusCode != http.StatusUnauthorized || retried {
		return nil, failure
	}

	// Another request may have finished a refresh between our send and this
	// failure; reuse its token instead of refreshing again.
	if current := c.store.AccessToken(); current != "" && current != sentWith {
		return c.do(ctx, req, true)
	}

	if c.store.RefreshToken() == "" {
		// Nothing to refresh with: the session is over. The original failure
		// is surfaced unchanged.
		c.store.Clear()
		c.logout.Notify(session.ReasonTokenExpired)
		c.logger.Warn().Str("path", req.Path).Msg("authentication failed with no refresh token, session ended")
		return nil, failure
	}

	if _, err := c.awaitRefresh(ctx, sentWith); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Msg("retrying request with refreshed token")
	return c.do(ctx, req, true)
}

// execute performs one HTTP attempt under the request's wait budget.
func (c *Client) execute(ctx context.Context, req Request, token string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.forRequest(req))
	defer cancel()

	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		// url.Values encodes array values as repeated keys (key=a&key=b).
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, vals := range req.Header {
		for _, v := range vals {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	switch {
	case req.ContentType != "":
		httpReq.Header.Set("Content-Type", req.ContentType)
	case req.Body != nil && !req.Multipart:
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}
