package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyGuard claims client-supplied keys so a repeated submission of
// the same action is refused while the first one is held.
type IdempotencyGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotencyGuard(client *redis.Client, ttl time.Duration) *IdempotencyGuard {
	return &IdempotencyGuard{client: client, ttl: ttl}
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Acquire claims key within scope. It returns false when the key is already held.
func (g *IdempotencyGuard) Acquire(ctx context.Context, scope, key string) (bool, error) {
	return g.client.SetNX(ctx, idempotencyKey(scope, key), time.Now().Unix(), g.ttl).Result()
}

// Release frees key so the action can be submitted again.
func (g *IdempotencyGuard) Release(ctx context.Context, scope, key string) error {
	return g.client.Del(ctx, idempotencyKey(scope, key)).Err()
}
