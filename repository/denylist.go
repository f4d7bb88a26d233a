package repository

import (
	"context"
	"time"
)

// TokenDenylist records revoked token IDs until their natural expiry. Tokens
// are otherwise stateless, so this is the only server-side invalidation path.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
