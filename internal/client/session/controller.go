// Package session owns the client's session credential: acquisition via
// login or setup, restoration at startup, attachment to outbound requests
// (through the api.TokenProvider hook) and invalidation on logout.
package session

import (
	"context"
	"sync"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/client/bootstrap"
	"github.com/postforge/identity/internal/client/store"
	"github.com/postforge/identity/internal/logging"
)

// Controller is the single writer of the session-token slot. It
// implements api.TokenProvider, so the HTTP client picks up every token
// change automatically; no other component touches credentials.
//
// The epoch counter orders competing mutations: each login, setup or
// logout bumps it, and an in-flight Restore that completes against a
// stale epoch discards its result. When in doubt the session ends —
// never the other way round.
type Controller struct {
	client api.Client
	store  store.CredentialStore
	gate   *bootstrap.Gate
	logger logging.Logger

	mu    sync.Mutex
	token string
	user  *api.User
	epoch uint64
}

func NewController(client api.Client, credStore store.CredentialStore, gate *bootstrap.Gate, logger logging.Logger) *Controller {
	return &Controller{
		client: client,
		store:  credStore,
		gate:   gate,
		logger: logger.With("module", "session"),
	}
}

// Token implements api.TokenProvider.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// CurrentUser returns the cached identity, or nil when anonymous.
func (c *Controller) CurrentUser() *api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != "" && c.user != nil
}

// Login authenticates and atomically replaces any existing session:
// in-memory identity, persisted credentials and the outbound token all
// change together before Login returns.
func (c *Controller) Login(ctx context.Context, email, password string) (*api.User, error) {
	user, token, err := c.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.install(ctx, user, token)
	return user, nil
}

// Setup performs first-run bootstrap. On success it installs the fresh
// session exactly like Login and marks the bootstrap gate configured.
func (c *Controller) Setup(ctx context.Context, name, email, password string) (*api.User, error) {
	user, token, err := c.client.Setup(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	c.install(ctx, user, token)
	if c.gate != nil {
		c.gate.MarkConfigured()
	}
	return user, nil
}

// Restore revalidates a persisted session at process start. Any failure —
// no stored token, transport error, rejection — degrades silently to the
// anonymous state; Restore never propagates an error to the caller.
func (c *Controller) Restore(ctx context.Context) {
	creds, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn(ctx, "failed to load persisted credentials", "error", err)
		return
	}
	if creds == nil || creds.Token == "" {
		return
	}

	// Install the candidate token so the validation request carries it,
	// and remember the epoch we started from.
	c.mu.Lock()
	c.token = creds.Token
	start := c.epoch
	c.mu.Unlock()

	user, err := c.client.Me(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != start {
		// A login or logout finished while we were validating; its state
		// wins over this stale restore.
		return
	}

	if err != nil {
		c.purgeLocked(ctx)
		return
	}

	c.user = user
	if err := c.store.Save(ctx, &store.Credentials{Token: c.token, User: *user}); err != nil {
		c.logger.Warn(ctx, "failed to persist restored session", "error", err)
	}
}

// Logout invalidates the session server-side on a best-effort basis and
// then unconditionally purges local state. The client never stays in an
// authenticated-looking state, even if the server call fails.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.client.Logout(ctx); err != nil {
		c.logger.Warn(ctx, "server-side logout failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeLocked(ctx)
}

func (c *Controller) install(ctx context.Context, user *api.User, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.token = token
	c.user = user

	if err := c.store.Save(ctx, &store.Credentials{Token: token, User: *user}); err != nil {
		c.logger.Warn(ctx, "failed to persist session", "error", err)
	}
}

func (c *Controller) purgeLocked(ctx context.Context) {
	c.epoch++
	c.token = ""
	c.user = nil

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn(ctx, "failed to clear persisted credentials", "error", err)
	}
}
