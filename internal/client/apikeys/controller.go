// Package apikeys manages long-lived API keys on behalf of the
// authenticated user: listing previews, issuing new keys and revoking
// them. The one-time secret of a freshly issued key is confined to the
// IssuedKey type and never reaches durable storage.
package apikeys

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/common"
)

// Controller requires an active session; it does not check this itself —
// an unauthenticated call surfaces the server's Unauthorized error.
type Controller struct {
	client api.Client

	mu     sync.Mutex
	cached []api.APIKey
}

func NewController(client api.Client) *Controller {
	return &Controller{client: client}
}

// List fetches the key previews in server order and refreshes the cache.
func (c *Controller) List(ctx context.Context) ([]api.APIKey, error) {
	keys, err := c.client.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = keys
	c.mu.Unlock()
	return keys, nil
}

// Keys returns the most recently fetched previews without a round trip.
func (c *Controller) Keys() []api.APIKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.APIKey, len(c.cached))
	copy(out, c.cached)
	return out
}

// Create issues a new key. An empty name is rejected locally before any
// request is sent. The returned IssuedKey is the only carrier of the full
// secret; the cached list is refreshed so the new key appears in preview
// form.
func (c *Controller) Create(ctx context.Context, name, description string) (*IssuedKey, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}

	created, err := c.client.CreateKey(ctx, name, description)
	if err != nil {
		return nil, err
	}

	issued := newIssuedKey(created)

	// Refresh is best-effort; the key was created either way.
	_, _ = c.List(ctx)
	return issued, nil
}

// Revoke deletes a key irreversibly and refreshes the cached list.
// Returns common.ErrNotFound when the key is already gone. Obtaining
// user confirmation beforehand is the caller's concern.
func (c *Controller) Revoke(ctx context.Context, id string) error {
	if err := c.client.RevokeKey(ctx, id); err != nil {
		return err
	}

	_, _ = c.List(ctx)
	return nil
}
