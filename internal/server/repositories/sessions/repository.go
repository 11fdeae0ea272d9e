package sessions

import (
	"context"
	"time"

	"github.com/postforge/identity/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, id, userID string, validity time.Duration) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
