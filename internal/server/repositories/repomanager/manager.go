package repomanager

import (
	"context"
	"database/sql"

	"github.com/postforge/identity/internal/server/repositories/apikeys"
	"github.com/postforge/identity/internal/server/repositories/sessions"
	"github.com/postforge/identity/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Sessions() sessions.Repository
	APIKeys() apikeys.Repository
}
