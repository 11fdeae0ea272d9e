package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/postforge/identity/internal/common"
	"github.com/postforge/identity/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisRepository stores session records in Redis with the expiry encoded
// as the key TTL. Used when the deployment wants session churn off the
// primary database.
type RedisRepository struct {
	client *redis.Client
}

// NewRedisRepository constructs a repository from a redis:// URL.
func NewRedisRepository(url string) (*RedisRepository, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url parse error: %w", err)
	}
	return &RedisRepository{client: redis.NewClient(opts)}, nil
}

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RedisRepository) Create(ctx context.Context, id, userID string, validity time.Duration) error {
	now := time.Now()
	rec := sessionRecord{UserID: userID, ExpiresAt: now.Add(validity), CreatedAt: now}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, keyPrefix+id, data, validity).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	rec := sessionRecord{}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &models.Session{ID: id, UserID: rec.UserID, ExpiresAt: rec.ExpiresAt, CreatedAt: rec.CreatedAt}, nil
}

func (r *RedisRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}
