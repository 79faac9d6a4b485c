package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dd0wney/cluso-portal/pkg/authstate"
)

// Client talks to the identity API over HTTP. The http.Client it is given is
// expected to carry the portal's interceptor transport, which attaches the
// bearer token to authenticated requests.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an identity client for the API at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// APIError is a non-2xx response from the identity API. The message is what
// forms surface inline.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}

// Login implements Service.
func (c *Client) Login(ctx context.Context, creds authstate.LoginCredentials) (*Session, error) {
	var session Session
	if err := c.post(ctx, "/auth/login", creds, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register implements Service.
func (c *Client) Register(ctx context.Context, fields authstate.RegisterFields) (*Session, error) {
	var session Session
	if err := c.post(ctx, "/auth/register", fields, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// RefreshToken implements Service.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*authstate.AuthToken, error) {
	req := struct {
		RefreshToken string `json:"refreshToken"`
	}{RefreshToken: refreshToken}

	var resp struct {
		Token authstate.AuthToken `json:"token"`
	}
	if err := c.post(ctx, "/auth/refresh", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Token, nil
}

// UserProfile implements Service.
func (c *Client) UserProfile(ctx context.Context) (*authstate.User, error) {
	var resp struct {
		User authstate.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/profile", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout implements Service.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", struct{}{}, nil)
}

// RequestPasswordReset implements Service.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.post(ctx, "/auth/forgot-password", req, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			apiErr.Message = body.Message
		} else {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
