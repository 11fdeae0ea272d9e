// Package server initializes and runs the identity service: it wires the
// storage backends and business services, starts the HTTP endpoint and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/postforge/identity/internal/logging"
	"github.com/postforge/identity/internal/server/config"
	"github.com/postforge/identity/internal/server/httpapi"
	"github.com/postforge/identity/internal/server/repositories/repomanager"
	"github.com/postforge/identity/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	authSvc   *services.AuthService
	apiKeySvc *services.APIKeyService
}

func NewApp(c *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN, c.SessionStoreURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authSvc := services.NewAuthService(rm.Users(), rm.Sessions(), c)
	apiKeySvc := services.NewAPIKeyService(rm.APIKeys(), c)

	return &App{config: c, logger: logger, authSvc: authSvc, apiKeySvc: apiKeySvc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.authSvc, app.apiKeySvc, app.config.CORSAllowedOrigins)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
