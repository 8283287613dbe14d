package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/domain"
	"github.com/redis/go-redis/v9"
)

type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) Save(ctx context.Context, token string, email string) error {
	if err := r.client.Set(ctx, "session:"+token, email, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, token string) (string, error) {
	email, err := r.client.Get(ctx, "session:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrRecordNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return email, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, "session:"+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
