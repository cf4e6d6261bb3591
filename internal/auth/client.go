package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	loginPath   = "/auth/login"
	refreshPath = "/auth/refresh"

	requestTimeout = 15 * time.Second
)

// Client talks to the authentication backend. It deliberately does not share
// the authenticated API client: the refresh exchange must never carry a
// possibly-expired bearer header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Login exchanges a username and password for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	pair, err := c.post(ctx, loginPath, loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	c.logger.Info().Str("username", username).Msg("logged in")
	return pair, nil
}

// Refresh exchanges a refresh token for a new token pair. The previous pair is
// invalid once the backend accepts the exchange.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, err := c.post(ctx, refreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %w", err)
	}
	c.logger.Debug().Msg("token pair refreshed")
	return pair, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*TokenPair, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errorBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(errorBody))
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("incomplete token pair in response")
	}
	return &pair, nil
}
