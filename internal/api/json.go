package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GetJSON retrieves a JSON resource and unmarshals it into entity.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, entity interface{}) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, entity); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// PostJSON sends body as JSON and, when entity is non-nil, unmarshals the
// response into it.
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, entity interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	resp, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: data})
	if err != nil {
		return err
	}
	if entity == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, entity); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// Delete issues a DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
	return err
}
