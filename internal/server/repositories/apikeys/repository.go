package apikeys

import (
	"context"

	"github.com/postforge/identity/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, key *models.APIKey) (*models.APIKey, error)
	List(ctx context.Context, userID string) ([]*models.APIKey, error)
	CountActive(ctx context.Context, userID string) (int, error)
	FindByDigest(ctx context.Context, digest string) (*models.APIKey, error)
	TouchLastUsed(ctx context.Context, id string) error
	Delete(ctx context.Context, userID, id string) error
}
