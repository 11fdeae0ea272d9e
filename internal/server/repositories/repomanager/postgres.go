// Package repomanager wires the concrete repositories to a database
// handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/postforge/identity/internal/server/migrations"
	"github.com/postforge/identity/internal/server/repositories/apikeys"
	"github.com/postforge/identity/internal/server/repositories/sessions"
	"github.com/postforge/identity/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db       *sql.DB
	users    users.Repository
	sessions sessions.Repository
	apiKeys  apikeys.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func (m *PostgresRepositoryManager) APIKeys() apikeys.Repository {
	return m.apiKeys
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

// NewPostgresRepositoryManager opens the database, constructs all
// repositories and applies pending migrations. When sessionStoreURL is a
// redis:// URL, session records are kept in Redis instead of Postgres.
func NewPostgresRepositoryManager(dsn string, sessionStoreURL string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	var sessionRepo sessions.Repository
	if sessionStoreURL != "" {
		sessionRepo, err = sessions.NewRedisRepository(sessionStoreURL)
		if err != nil {
			return nil, fmt.Errorf("session store init error: %w", err)
		}
	} else {
		sessionRepo = sessions.NewPostgresRepository(db)
	}

	m := &PostgresRepositoryManager{
		db:       db,
		users:    users.NewPostgresRepository(db),
		sessions: sessionRepo,
		apiKeys:  apikeys.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
