package store

import (
	"context"
	"database/sql"

	"github.com/postforge/identity/internal/client/migrations"
	"github.com/pressly/goose/v3"
)

// InitDatabase opens (creating if needed) the local credentials database
// and applies pending migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, err
	}

	return db, nil
}
