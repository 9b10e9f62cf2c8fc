// Package catalog provides the HTTP client for the remote catalog gateway.
// It implements engine.Gateway over the /items wire protocol.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gearscan/models"
)

var (
	// ErrVersionConflict means another operator updated the item since this
	// session snapshotted it; the write was rejected, not overwritten.
	ErrVersionConflict = errors.New("catalog item was modified by another operator")

	ErrNotFound = errors.New("catalog item not found")
)

// Client talks to a catalog server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the catalog at baseURL. A nil httpClient
// gets a 10 second timeout default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type listResponse struct {
	Result []models.CatalogItem `json:"result"`
}

// ListItems fetches the full catalog. There is no incremental diff.
func (c *Client) ListItems(ctx context.Context) ([]models.CatalogItem, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/items", nil, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		out.Result = []models.CatalogItem{}
	}
	return out.Result, nil
}

// CreateItem adds a new catalog item.
func (c *Client) CreateItem(ctx context.Context, fields models.ItemFields) (models.CatalogItem, error) {
	var out models.CatalogItem
	if err := c.do(ctx, http.MethodPost, "/items", fields, &out); err != nil {
		return models.CatalogItem{}, err
	}
	return out, nil
}

type updateRequest struct {
	models.ItemFields
	Version int64 `json:"version"`
}

// UpdateItem replaces the supplied fields of an item. version must match
// the server's current item version or the write fails with
// ErrVersionConflict.
func (c *Client) UpdateItem(ctx context.Context, id string, version int64, fields models.ItemFields) (models.CatalogItem, error) {
	var out models.CatalogItem
	body := updateRequest{ItemFields: fields, Version: version}
	if err := c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(id), body, &out); err != nil {
		return models.CatalogItem{}, err
	}
	return out, nil
}

// DeleteItem removes a catalog item.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return ErrVersionConflict
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%s %s: %s", method, path, strings.TrimSpace(readErrorMessage(resp.Body, resp.Status)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readErrorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err == nil && json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
