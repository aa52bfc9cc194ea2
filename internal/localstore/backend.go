// Package localstore persists guest state as JSON values under namespaced
// keys. Storage failures never reach the caller: reads fall back to a default
// and writes report false.
package localstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Backend is the raw byte store behind a Store.
type Backend interface {
	// Load returns ErrNotFound when the key is absent or expired.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	// Delete of a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
