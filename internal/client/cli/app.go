// Package cli implements the interactive Postforge terminal client: a
// small REPL over the identity service covering first-run setup, login,
// session restore, logout and API key management.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/client/apikeys"
	"github.com/postforge/identity/internal/client/bootstrap"
	"github.com/postforge/identity/internal/client/config"
	"github.com/postforge/identity/internal/client/session"
	"github.com/postforge/identity/internal/client/store"
	"github.com/postforge/identity/internal/logging"

	_ "modernc.org/sqlite"
)

// tokenProviderFunc adapts a closure to api.TokenProvider so the HTTP
// client can be constructed before the session controller exists.
type tokenProviderFunc func() string

func (f tokenProviderFunc) Token() string { return f() }

type App struct {
	config  *config.Config
	logger  logging.Logger
	gate    *bootstrap.Gate
	session *session.Controller
	keys    *apikeys.Controller
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	db, err := store.InitDatabase(ctx, c.CredentialsDBPath)
	if err != nil {
		return nil, err
	}
	credStore := store.NewSQLiteStore(db)

	// The session controller is the token provider for the client it
	// itself depends on; the closure breaks the construction cycle.
	var sessionCtrl *session.Controller
	apiClient := api.NewHTTPClient(c.ServerEndpointAddr, tokenProviderFunc(func() string {
		if sessionCtrl == nil {
			return ""
		}
		return sessionCtrl.Token()
	}), c.RequestTimeout)

	gate := bootstrap.NewGate(apiClient)
	sessionCtrl = session.NewController(apiClient, credStore, gate, logger)
	keyCtrl := apikeys.NewController(apiClient)

	return &App{
		config:  c,
		logger:  logger,
		gate:    gate,
		session: sessionCtrl,
		keys:    keyCtrl,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}
