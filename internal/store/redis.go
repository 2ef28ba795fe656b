package store

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// paidSetKey is the Redis set holding every paid identity.
const paidSetKey = "paid_identities"

// RedisStore backs the paid set with Redis so membership survives restarts
// and is shared across instances.
type RedisStore struct {
	rdb *redis.Client
}

var _ PaidStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) IsPaid(ctx context.Context, identity string) (bool, error) {
	return s.rdb.SIsMember(ctx, paidSetKey, identity).Result()
}

func (s *RedisStore) MarkPaid(ctx context.Context, identity string) error {
	return s.rdb.SAdd(ctx, paidSetKey, identity).Err()
}

func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	return s.rdb.SCard(ctx, paidSetKey).Result()
}
