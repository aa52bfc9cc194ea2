package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	CollectionCart          = "cart"
	CollectionWishlist      = "wishlist"
	CollectionSearchHistory = "search-history"
)

type Store struct {
	backend   Backend
	namespace string
}

func New(backend Backend, namespace string) *Store {
	return &Store{
		backend:   backend,
		namespace: namespace,
	}
}

// Key builds the storage key of one guest collection.
func (s *Store) Key(owner, collection string) string {
	return strings.Join([]string{s.namespace, owner, collection}, ":")
}

// Get decodes the value stored under key, or returns def when the key is
// missing or cannot be read.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	data, err := s.backend.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("localstore get %s: %v", key, err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("localstore decode %s: %v", key, err)
		return def
	}
	return v
}

// Load is Get for read-modify-write callers. A missing key yields the zero
// value; a backend failure is returned so the caller does not overwrite
// state it could not read. An undecodable value is logged and treated as
// missing, since writing over it is the only way to repair it.
func Load[T any](ctx context.Context, s *Store, key string) (T, error) {
	var v T
	data, err := s.backend.Load(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("localstore load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("localstore decode %s: %v", key, err)
		var zero T
		return zero, nil
	}
	return v, nil
}

// Set encodes v and stores it under key. It reports whether the write took
// effect.
func Set[T any](ctx context.Context, s *Store, key string, v T) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("localstore encode %s: %v", key, err)
		return false
	}
	if err := s.backend.Save(ctx, key, data); err != nil {
		log.Printf("localstore set %s: %v", key, err)
		return false
	}
	return true
}

func (s *Store) Remove(ctx context.Context, key string) bool {
	if err := s.backend.Delete(ctx, key); err != nil {
		log.Printf("localstore remove %s: %v", key, err)
		return false
	}
	return true
}
