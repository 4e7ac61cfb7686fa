// Package redis keeps revoked token ids in Redis with a TTL matching the
// token's remaining lifetime.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"lostfound/internal/port"
)

const keyPrefix = "lostfound:revoked:"

type store struct {
	client *goredis.Client
}

// NewStore creates a Redis-backed TokenStore.
func NewStore(client *goredis.Client) port.TokenStore {
	return &store{client: client}
}

func (s *store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redisTokenStore.Revoke: %w", err)
	}
	return nil
}

func (s *store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redisTokenStore.IsRevoked: %w", err)
	}
	return n > 0, nil
}
