package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/postforge/identity/internal/client/api"
	"github.com/postforge/identity/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps credentials in a local key/value table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Load(ctx context.Context) (*Credentials, error) {
	token, err := s.get(ctx, s.db, keyToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}

	creds := &Credentials{Token: string(token)}

	userData, err := s.get(ctx, s.db, keyUser)
	if err != nil {
		return nil, err
	}
	if userData != nil {
		user := api.User{}
		if err := json.Unmarshal(userData, &user); err == nil {
			creds.User = user
		}
	}

	return creds, nil
}

// Save writes token and user in a single transaction so a crash can not
// leave a token without its identity or vice versa.
func (s *SQLiteStore) Save(ctx context.Context, creds *Credentials) error {
	userData, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyToken, []byte(creds.Token)); err != nil {
			return err
		}
		return s.set(ctx, tx, keyUser, userData)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}
