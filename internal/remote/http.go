package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// HTTPClient talks to the backend's JSON API. Network-level failures and 5xx
// responses surface as ErrUnavailable so callers can fall back to offline
// behavior; 401 surfaces as ErrUnauthorized.
type HTTPClient struct {
	base string
	http *http.Client

	mu    sync.Mutex
	token string
}

// NewHTTPClient builds a client for a host:port backend address.
func NewHTTPClient(addr string) *HTTPClient {
	return &HTTPClient{
		base: "http://" + addr,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token used on record mutations.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type loginResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Identifier  string `json:"identifier"`
	Secret      string `json:"secret"`
	DisplayName string `json:"display_name"`
}

func (c *HTTPClient) Login(ctx context.Context, identifier string, secret []byte) (*AuthResult, error) {
	body, err := json.Marshal(loginRequest{Identifier: identifier, Secret: string(secret)})
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	c.SetToken(lr.AccessToken)
	return &AuthResult{UserID: lr.UserID, DisplayName: lr.DisplayName, AccessToken: lr.AccessToken}, nil
}

func (c *HTTPClient) Register(ctx context.Context, identifier string, secret []byte, displayName string) error {
	body, err := json.Marshal(registerRequest{Identifier: identifier, Secret: string(secret), DisplayName: displayName})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/ping", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTPClient) Insert(ctx context.Context, table string, data []byte) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/records/"+table, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTPClient) Update(ctx context.Context, table string, data []byte) error {
	resp, err := c.do(ctx, http.MethodPut, "/api/records/"+table, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTPClient) Delete(ctx context.Context, table, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/records/"+table+"/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: backend returned %d", ErrUnavailable, resp.StatusCode)
	default:
		return fmt.Errorf("backend returned %d", resp.StatusCode)
	}
}
