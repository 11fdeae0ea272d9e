package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/postforge/identity/internal/common"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

func TestAuthTransport_AttachesToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get(common.AuthHeaderName)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u-1"}`))
	}))
	defer ts.Close()

	tokens := &staticTokens{token: "tok-123"}
	c := NewHTTPClient(ts.URL, tokens, time.Second)

	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if gotAuth != common.BearerPrefix+"tok-123" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}

	// No token, no header.
	tokens.token = ""
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("header sent without a token: %q", gotAuth)
	}
}

func TestLogin_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u-1","name":"Alice","email":"alice@example.com","plan":"premium"},"token":"tok"}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, &staticTokens{}, time.Second)
	user, token, err := c.Login(context.Background(), "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.Email != "alice@example.com" || token != "tok" {
		t.Fatalf("unexpected result: user=%+v token=%q", user, token)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"invalid email or password"}`, common.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"detail":"API key not found"}`, common.ErrNotFound},
		{"not configured", http.StatusServiceUnavailable, `{"detail":"System not configured."}`, common.ErrNotConfigured},
		{"already configured", http.StatusBadRequest, `{"detail":"System is already configured"}`, common.ErrAlreadyConfigured},
		{"too many keys", http.StatusBadRequest, `{"detail":"Maximum number of API keys reached"}`, common.ErrTooManyKeys},
		{"validation", http.StatusBadRequest, `{"detail":"name is required"}`, common.ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			c := NewHTTPClient(ts.URL, &staticTokens{}, time.Second)
			_, err := c.Me(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestUnauthorized_CarriesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"invalid email or password"}`))
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, &staticTokens{}, time.Second)
	_, _, err := c.Login(context.Background(), "a@b.c", "wrong")

	var authErr *common.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != "invalid email or password" {
		t.Fatalf("unexpected reason: %q", authErr.Reason)
	}
}

func TestNetworkError_MapsToUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse all connections

	c := NewHTTPClient(ts.URL, &staticTokens{}, time.Second)
	_, err := c.Status(context.Background())
	if !errors.Is(err, common.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
