// Package remote holds the accessors for server-side cart and wishlist state.
// Reads go through a cache and are de-duplicated per user; every successful
// mutation invalidates the user's entry and refetches it, so callers always
// get server truth back. Accessors do not check authentication.
package remote

import (
	"context"
	"log"
	"time"

	"github.com/electro-atlas/storefront/internal/cache"
)

// Credentials identify the signed-in user a request is made for.
type Credentials struct {
	UserID string
	Token  string
}

const invalidateTimeout = time.Second

func invalidate[T any](c cache.Cache[T], tag string) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidateTimeout)
	defer cancel()
	if err := c.Delete(ctx, tag); err != nil {
		log.Printf("cache invalidate %s error: %v", tag, err)
	}
}
