// Package store persists the client's durable credential state: the
// session token and a denormalized copy of the user record. API key
// secrets are never written here.
package store

import (
	"context"

	"github.com/postforge/identity/internal/client/api"
)

// Credentials is the full durable client state.
type Credentials struct {
	Token string
	User  api.User
}

// CredentialStore loads and saves the persisted session state.
type CredentialStore interface {
	// Load returns the stored credentials, or nil when none are stored.
	Load(ctx context.Context) (*Credentials, error)
	// Save replaces the stored credentials atomically.
	Save(ctx context.Context, creds *Credentials) error
	// Clear removes all stored credentials.
	Clear(ctx context.Context) error
}
