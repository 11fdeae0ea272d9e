// Package httpapi exposes the identity service over HTTP JSON. Routing
// is handled by chi; handlers stay thin and translate service-level
// sentinel errors into HTTP statuses.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/postforge/identity/internal/logging"
	"github.com/postforge/identity/internal/server/services"
)

type Server struct {
	address   string
	logger    logging.Logger
	authSvc   *services.AuthService
	apiKeySvc *services.APIKeyService
	corsList  []string
}

func NewServer(addr string, l logging.Logger, authSvc *services.AuthService, apiKeySvc *services.APIKeyService, corsOrigins string) *Server {
	return &Server{
		address:   addr,
		logger:    l.With("module", "httpapi"),
		authSvc:   authSvc,
		apiKeySvc: apiKeySvc,
		corsList:  strings.Split(corsOrigins, ","),
	}
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsList,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
	}))

	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/setup", s.handleSetup)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/logout", s.handleLogout)
			r.Get("/api-keys", s.handleListKeys)
			r.Post("/api-keys", s.handleCreateKey)
			r.Delete("/api-keys/{id}", s.handleRevokeKey)
		})
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
