package port

import (
	"context"
	"time"
)

// TokenStore tracks revoked access token ids until they would have expired.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
