// Package apikeys provides the PostgreSQL-backed repository for API key
// records. Rows never contain the plaintext secret, only its SHA-256
// digest and a display preview.
package apikeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/dbx"
	"github.com/postforge/identity/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, key *models.APIKey) (*models.APIKey, error) {
	query := `
		INSERT INTO api_keys (user_id, name, description, key_preview, digest)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		key.UserID, key.Name, key.Description, key.KeyPreview, key.Digest).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return key, nil
}

// List returns the user's keys in creation order.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.APIKey, error) {
	query := `
		SELECT id, name, description, key_preview, digest, created_at, last_used
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		key := &models.APIKey{}
		if err := rows.Scan(&key.ID, &key.Name, &key.Description, &key.KeyPreview, &key.Digest, &key.CreatedAt, &key.LastUsed); err != nil {
			return nil, fmt.Errorf("error scanning api key row: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating api key rows: %w", err)
	}
	return keys, nil
}

func (r *PostgresRepository) CountActive(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM api_keys WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return n, nil
}

// FindByDigest returns the key record matching a secret's digest, used
// when validating X-API-Key credentials.
func (r *PostgresRepository) FindByDigest(ctx context.Context, digest string) (*models.APIKey, error) {
	query := `
		SELECT id, name, description, key_preview, digest, created_at, last_used
		FROM api_keys
		WHERE digest = $1
	`
	key := &models.APIKey{}
	err := r.db.QueryRowContext(ctx, query, digest).Scan(&key.ID, &key.Name, &key.Description, &key.KeyPreview, &key.Digest, &key.CreatedAt, &key.LastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	return key, nil
}

// TouchLastUsed updates the server-maintained last_used timestamp.
func (r *PostgresRepository) TouchLastUsed(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

// Delete revokes a key irreversibly. Returns common.ErrNotFound when no
// row matched.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
