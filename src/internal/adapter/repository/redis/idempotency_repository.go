package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mh-fins/wallet-ledger/src/internal/adapter/http/middleware"
	"github.com/redis/go-redis/v9"
)

type IdempotencyRepository struct {
	client *redis.Client
}

func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*middleware.CachedResponse, error) {
	val, err := r.client.Get(ctx, "idempotency:"+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	var resp middleware.CachedResponse
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal cached response: %w", err)
	}

	return &resp, nil
}

func (r *IdempotencyRepository) Save(ctx context.Context, key string, response middleware.CachedResponse, ttl time.Duration) error {
	bytes, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("marshal cached response: %w", err)
	}

	return r.client.Set(ctx, "idempotency:"+key, bytes, ttl).Err()
}
