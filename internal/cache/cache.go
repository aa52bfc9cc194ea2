package cache

import (
	"context"
	"errors"
)

// Cache holds server-state query results keyed by tag id.
type Cache[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Set(ctx context.Context, id string, value *T) error
	Delete(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")
