package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisCache[T any](client *redis.Client, prefix string, baseTTL time.Duration) *RedisCache[T] {
	return &RedisCache[T]{
		client:  client,
		prefix:  prefix,
		baseTTL: baseTTL,
	}
}

type RedisCache[T any] struct {
	client  *redis.Client
	prefix  string
	baseTTL time.Duration
}

func (r RedisCache[T]) Get(ctx context.Context, id string) (*T, error) {
	key := r.cacheKey(id)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var value T
	if err2 := json.Unmarshal(data, &value); err2 != nil {
		return nil, fmt.Errorf("unmarshal %s failed: %w", r.prefix, err2)
	}

	return &value, nil
}

func (r RedisCache[T]) Set(ctx context.Context, id string, value *T) error {
	key := r.cacheKey(id)
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", r.prefix, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl()).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisCache[T]) Delete(ctx context.Context, id string) error {
	key := r.cacheKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

// ttl spreads expiry over baseTTL + [0, baseTTL/3) so entries written together
// do not all expire together.
func (r RedisCache[T]) ttl() time.Duration {
	spread := int64(r.baseTTL / 3)
	if spread <= 0 {
		return r.baseTTL
	}
	return r.baseTTL + time.Duration(rand.Int63n(spread))
}

func (r RedisCache[T]) cacheKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}
