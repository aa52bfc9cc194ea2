package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/electro-atlas/storefront/internal/localstore"
)

// History is a guest's recent search queries, most recent first.
type History struct {
	store *localstore.Store
	key   string
	limit int
	owner string
}

func (h *History) List(ctx context.Context) ([]string, error) {
	if h.owner == "" {
		return nil, ErrNoGuestSession
	}
	return localstore.Get(ctx, h.store, h.key, []string{}), nil
}

// Record moves query to the front. Repeats are matched case-insensitively
// and the list is cut to the configured limit.
func (h *History) Record(ctx context.Context, query string) ([]string, error) {
	if h.owner == "" {
		return nil, ErrNoGuestSession
	}
	query = strings.TrimSpace(query)
	current, err := localstore.Load[[]string](ctx, h.store, h.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if current == nil {
		current = []string{}
	}
	if query == "" {
		return current, nil
	}

	next := make([]string, 0, min(len(current)+1, h.limit))
	next = append(next, query)
	for _, q := range current {
		if len(next) == h.limit {
			break
		}
		if strings.EqualFold(q, query) {
			continue
		}
		next = append(next, q)
	}

	if !localstore.Set(ctx, h.store, h.key, next) {
		return current, ErrStorageUnavailable
	}
	return next, nil
}

func (h *History) Clear(ctx context.Context) error {
	if h.owner == "" {
		return ErrNoGuestSession
	}
	if !h.store.Remove(ctx, h.key) {
		return ErrStorageUnavailable
	}
	return nil
}
