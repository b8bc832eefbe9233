// Package mediahttp uploads report photos to a plain HTTP media endpoint
// with multipart encoding and byte-level progress reporting.
package mediahttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"cleancity/api"
	"cleancity/collab"
)

// Client implements collab.ImageHost. Progress, when set, is called with
// (sent, total) as the request body streams out; cancellation comes from
// the request context.
type Client struct {
	baseURL    string
	token      func() string
	httpClient *http.Client

	Progress func(sent, total int64)
}

var _ collab.ImageHost = (*Client)(nil)

func NewClient(baseURL string, token func() string) *Client {
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

func (c *Client) Upload(ctx context.Context, image []byte, name string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}
	if name == "" {
		name = "photo.jpg"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", name)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	total := int64(body.Len())
	var reader io.Reader = &body
	if c.Progress != nil {
		reader = &progressReader{r: &body, total: total, report: c.Progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+api.MediaEndpoint, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e api.ErrorResponse
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil && e.Error != "" {
			return "", errors.New(e.Error)
		}
		return "", fmt.Errorf("upload failed with status %s", resp.Status)
	}

	var out api.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", errors.New("upload response missing url")
	}
	return out.URL, nil
}

type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	report func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.report(p.sent, p.total)
	}
	return n, err
}
