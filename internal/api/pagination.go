package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListParams describe one page of a list endpoint.
type ListParams struct {
	Page    int
	PerPage int
	Sort    string

	// Filter values with multiple entries serialize as repeated keys
	// (tag=go&tag=testing), never bracketed or comma-joined.
	Filter url.Values
}

func (p ListParams) Values() url.Values {
	v := url.Values{}
	for key, vals := range p.Filter {
		for _, s := range vals {
			v.Add(key, s)
		}
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(p.PerPage))
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	return v
}

// PageInfo is the pagination metadata of a list response.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type pageEnvelope struct {
	Items json.RawMessage `json:"items"`
	PageInfo
}

// GetPage fetches one page of a list endpoint and unmarshals its items into
// the given slice pointer.
func (c *Client) GetPage(ctx context.Context, path string, params ListParams, items interface{}) (*PageInfo, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: params.Values()})
	if err != nil {
		return nil, err
	}
	var env pageEnvelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page envelope: %w", err)
	}
	if len(env.Items) > 0 {
		if err := json.Unmarshal(env.Items, items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal page items: %w", err)
		}
	}
	info := env.PageInfo
	return &info, nil
}
