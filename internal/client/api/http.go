package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/postforge/identity/internal/common"
)

const defaultTimeout = 12 * time.Second

// HTTPClient implements Client over the identity service's HTTP JSON
// contract.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// authTransport injects the current session token into every outbound
// request. This is the single credential-attachment point; no call site
// sets the header itself.
type authTransport struct {
	tokens TokenProvider
	next   http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.tokens.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set(common.AuthHeaderName, common.BearerPrefix+token)
	}
	return t.next.RoundTrip(req)
}

// NewHTTPClient constructs a client for the service at baseURL. Tokens
// are read from the given provider on every request. A finite request
// timeout keeps a hung identity service from blocking callers forever.
func NewHTTPClient(baseURL string, tokens TokenProvider, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{tokens: tokens, next: http.DefaultTransport},
		},
	}
}

func (c *HTTPClient) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	if err := c.do(ctx, http.MethodGet, "/api/auth/status", nil, st); err != nil {
		return nil, err
	}
	return st, nil
}

type authResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

func (c *HTTPClient) Setup(ctx context.Context, name, email, password string) (*User, string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	resp := &authResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/setup", body, resp); err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*User, string, error) {
	body := map[string]string{"email": email, "password": password}
	resp := &authResponse{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, resp); err != nil {
		return nil, "", err
	}
	return resp.User, resp.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) ListKeys(ctx context.Context) ([]APIKey, error) {
	var keys []APIKey
	if err := c.do(ctx, http.MethodGet, "/api/auth/api-keys", nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (c *HTTPClient) CreateKey(ctx context.Context, name, description string) (*CreatedKey, error) {
	body := map[string]string{"name": name, "description": description}
	key := &CreatedKey{}
	if err := c.do(ctx, http.MethodPost, "/api/auth/api-keys", body, key); err != nil {
		return nil, err
	}
	return key, nil
}

func (c *HTTPClient) RevokeKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/api-keys/"+id, nil, nil)
}

// do performs one JSON round trip and maps transport and HTTP errors to
// the shared sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return mapStatusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func mapStatusError(resp *http.Response) error {
	detail := decodeDetail(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if detail != "" {
			return &common.AuthError{Reason: detail}
		}
		return common.ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusServiceUnavailable:
		return common.ErrNotConfigured
	case http.StatusBadRequest:
		switch {
		case strings.Contains(detail, "already configured"):
			return common.ErrAlreadyConfigured
		case strings.Contains(detail, "Maximum number of API keys"):
			return common.ErrTooManyKeys
		case detail != "":
			return fmt.Errorf("%w: %s", common.ErrValidation, detail)
		default:
			return common.ErrValidation
		}
	default:
		if detail != "" {
			return fmt.Errorf("server error: %s", detail)
		}
		return fmt.Errorf("server error: status %d", resp.StatusCode)
	}
}

func decodeDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
