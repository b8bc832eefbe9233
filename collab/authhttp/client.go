// Package authhttp is the HTTP adapter for the auth collaborator, speaking
// the REST surface declared in the api package.
package authhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"cleancity/api"
	"cleancity/collab"
	"cleancity/models"
)

const contentType = "application/json"

// Client implements collab.AuthService against an auth REST backend and
// remembers the identity of the last successful sign-in.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.Mutex
	current *models.Identity
}

var _ collab.AuthService = (*Client)(nil)

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp api.AuthResponse
	err := c.post(ctx, api.LoginEndpoint, "", api.Credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	identity := &models.Identity{
		ID:        resp.UserID,
		Name:      resp.Name,
		Email:     email,
		AvatarURL: resp.AvatarURL,
		Token:     resp.Token,
	}
	c.setCurrent(identity)
	return identity, nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	var resp api.AuthResponse
	err := c.post(ctx, api.SignUpEndpoint, "", api.Credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	identity := &models.Identity{
		ID:    resp.UserID,
		Email: email,
		Token: resp.Token,
	}
	c.setCurrent(identity)
	return identity, nil
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	return c.post(ctx, api.ResetEndpoint, "", api.ResetArgs{Email: email}, nil)
}

func (c *Client) UpdateDisplayName(ctx context.Context, identity *models.Identity, name string) error {
	if identity == nil {
		return errors.New("no identity to update")
	}
	if err := c.post(ctx, api.ProfileEndpoint, identity.Token, api.ProfileArgs{Name: name}, nil); err != nil {
		return err
	}
	identity.Name = name

	c.mu.Lock()
	if c.current != nil && c.current.ID == identity.ID {
		c.current.Name = name
	}
	c.mu.Unlock()
	return nil
}

// Current returns a copy of the signed-in identity, or nil.
func (c *Client) Current() *models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}

// SignOut forgets the stored identity.
func (c *Client) SignOut() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

func (c *Client) setCurrent(identity *models.Identity) {
	c.mu.Lock()
	cp := *identity
	c.current = &cp
	c.mu.Unlock()
}

func (c *Client) post(ctx context.Context, endpoint, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage surfaces the backend's error line verbatim so the controller
// can classify it by substring, the same way the managed provider's
// messages are classified.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var e api.ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return fmt.Sprintf("request failed with status %s", resp.Status)
}
