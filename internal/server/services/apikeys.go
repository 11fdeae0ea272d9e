package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/auth"
	"github.com/postforge/identity/internal/server/config"
	"github.com/postforge/identity/internal/server/models"
	"github.com/postforge/identity/internal/server/repositories/apikeys"
)

// APIKeyService issues, lists and revokes long-lived API keys.
type APIKeyService struct {
	keys    apikeys.Repository
	maxKeys int
}

func NewAPIKeyService(keyRepo apikeys.Repository, cfg *config.Config) *APIKeyService {
	return &APIKeyService{keys: keyRepo, maxKeys: cfg.MaxAPIKeys}
}

// List returns the user's keys in creation order, preview form only.
func (s *APIKeyService) List(ctx context.Context, userID string) ([]*models.APIKey, error) {
	keys, err := s.keys.List(ctx, userID)
	if err != nil {
		return nil, common.ErrInternal
	}
	return keys, nil
}

// Create issues a new key and returns the record together with the
// plaintext secret. The secret is not stored; this return value is the
// only time it exists server-side.
func (s *APIKeyService) Create(ctx context.Context, userID, name, description string) (*models.APIKey, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", fmt.Errorf("%w: name is required", common.ErrValidation)
	}

	n, err := s.keys.CountActive(ctx, userID)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	if n >= s.maxKeys {
		return nil, "", common.ErrTooManyKeys
	}

	secret, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, "", common.ErrInternal
	}

	key := &models.APIKey{
		UserID:      userID,
		Name:        name,
		Description: description,
		KeyPreview:  auth.APIKeyPreview(secret),
		Digest:      auth.APIKeyDigest(secret),
	}
	key, err = s.keys.Create(ctx, key)
	if err != nil {
		return nil, "", common.ErrInternal
	}
	return key, secret, nil
}

// Revoke deletes a key irreversibly. common.ErrNotFound is returned when
// the key is already gone.
func (s *APIKeyService) Revoke(ctx context.Context, userID, id string) error {
	if err := s.keys.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return common.ErrInternal
	}
	return nil
}

// Validate resolves an X-API-Key secret to its record and bumps the
// server-maintained last_used timestamp.
func (s *APIKeyService) Validate(ctx context.Context, secret string) (*models.APIKey, error) {
	key, err := s.keys.FindByDigest(ctx, auth.APIKeyDigest(secret))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}
	if err := s.keys.TouchLastUsed(ctx, key.ID); err != nil {
		return nil, common.ErrInternal
	}
	return key, nil
}
