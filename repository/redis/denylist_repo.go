package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/repository"
)

type denylistRepository struct {
	client *redislib.Client
	prefix string
}

// NewTokenDenylist creates a Redis-backed revoked-token store. Entries carry a
// TTL matching the token's remaining lifetime, so the set cleans itself up.
func NewTokenDenylist(client *redislib.Client) repository.TokenDenylist {
	return &denylistRepository{
		client: client,
		prefix: "revoked:",
	}
}

func (r *denylistRepository) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), 1, ttl).Err()
}

func (r *denylistRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *denylistRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
