// Package api defines the wire-level client for the Postforge identity
// service: the operation interface, the JSON payload types and the HTTP
// implementation. Higher-level controllers (session, bootstrap, apikeys)
// depend only on the Client interface.
package api

import (
	"context"
	"time"
)

// TokenProvider supplies the current session token for outbound requests.
// The session controller owns the token slot; the HTTP transport reads it
// through this hook on every request, so there is exactly one place where
// credentials get attached.
type TokenProvider interface {
	Token() string
}

// Status is the bootstrap state reported by the server.
type Status struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

// User is the identity record cached client-side while a session is
// active.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// APIKey is the preview-only record of a long-lived key. Re-fetching a
// key always yields this form; the secret is not part of it.
type APIKey struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	KeyPreview  string     `json:"key_preview"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used"`
}

// CreatedKey is the create-key response: the preview record plus the
// one-time plaintext secret.
type CreatedKey struct {
	APIKey
	Key string `json:"key"`
}

// Client is the identity service API surface.
//
// Contract:
//   - Status never requires credentials.
//   - Setup/Login return the user together with a fresh session token;
//     they do not install it anywhere.
//   - All other operations carry the token supplied by the TokenProvider.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Status(ctx context.Context) (*Status, error)
	Setup(ctx context.Context, name, email, password string) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	Me(ctx context.Context) (*User, error)
	Logout(ctx context.Context) error
	ListKeys(ctx context.Context) ([]APIKey, error)
	CreateKey(ctx context.Context, name, description string) (*CreatedKey, error)
	RevokeKey(ctx context.Context, id string) error
}
