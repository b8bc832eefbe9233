// Package dochttp is the HTTP adapter for the document-store collaborator.
package dochttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cleancity/api"
	"cleancity/collab"
)

// Client implements collab.DocumentStore against the document REST surface.
type Client struct {
	baseURL    string
	token      func() string
	httpClient *http.Client
}

var _ collab.DocumentStore = (*Client)(nil)

// NewClient builds a store client. token is called per request and may
// return "" while nobody is signed in; reads are public, writes are not.
func NewClient(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Query(ctx context.Context, collection, orderBy string, descending bool) ([]collab.Record, error) {
	dir := "asc"
	if descending {
		dir = "desc"
	}
	u := fmt.Sprintf("%s%s/%s?order_by=%s&dir=%s",
		c.baseURL, api.DocsEndpoint, url.PathEscape(collection), url.QueryEscape(orderBy), dir)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out api.QueryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	recs := make([]collab.Record, len(out.Records))
	for i, r := range out.Records {
		recs[i] = r
	}
	return recs, nil
}

func (c *Client) Insert(ctx context.Context, collection string, rec collab.Record) (string, error) {
	payload, err := json.Marshal(encodeRecord(rec))
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}

	u := fmt.Sprintf("%s%s/%s", c.baseURL, api.DocsEndpoint, url.PathEscape(collection))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out api.InsertResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) MergeUpdate(ctx context.Context, collection, id string, rec collab.Record) error {
	payload, err := json.Marshal(encodeRecord(rec))
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	u := fmt.Sprintf("%s%s/%s/%s", c.baseURL, api.DocsEndpoint, url.PathEscape(collection), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// encodeRecord rewrites Increment sentinels into their wire form. Nested
// maps are walked; everything else passes through to the JSON encoder.
func encodeRecord(rec collab.Record) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		switch val := v.(type) {
		case collab.Increment:
			out[k] = map[string]any{api.IncrementKey: val.By}
		case map[string]any:
			out[k] = encodeRecord(val)
		default:
			out[k] = v
		}
	}
	return out
}

func (c *Client) do(req *http.Request, out any) error {
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e api.ErrorResponse
		if jsonErr := json.Unmarshal(body, &e); jsonErr == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("request failed with status %s", resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
