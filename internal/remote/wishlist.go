package remote

import (
	"context"
	"errors"
	"log"

	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

type WishlistAPI interface {
	GetWishlist(ctx context.Context, token string) (*domain.WishlistView, error)
	AddWishlistItem(ctx context.Context, token string, item domain.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, token, productID string) error
	ClearWishlist(ctx context.Context, token string) error
}

type WishlistAccessor struct {
	api   WishlistAPI
	cache cache.Cache[domain.WishlistView]
	sfg   singleflight.Group
}

func NewWishlistAccessor(api WishlistAPI, c cache.Cache[domain.WishlistView]) *WishlistAccessor {
	return &WishlistAccessor{
		api:   api,
		cache: c,
	}
}

func (a *WishlistAccessor) Get(ctx context.Context, cred Credentials) (*domain.WishlistView, error) {
	v, err, _ := a.sfg.Do(cred.UserID, func() (interface{}, error) {
		wishlist, err := a.cache.Get(ctx, cred.UserID)
		if err == nil {
			return wishlist, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("wishlist cache get error: %v", err)
		}

		wishlist, err = a.api.GetWishlist(ctx, cred.Token)
		if err != nil {
			return nil, err
		}

		if errSet := a.cache.Set(ctx, cred.UserID, wishlist); errSet != nil {
			log.Printf("wishlist cache set error: %v", errSet)
		}
		return wishlist, nil
	})
	if err != nil {
		return nil, err
	}

	wishlist := *v.(*domain.WishlistView)
	wishlist.Items = append([]domain.WishlistItem(nil), wishlist.Items...)
	return &wishlist, nil
}

func (a *WishlistAccessor) Add(ctx context.Context, cred Credentials, item domain.WishlistItem) (*domain.WishlistView, error) {
	if err := a.api.AddWishlistItem(ctx, cred.Token, item); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *WishlistAccessor) Remove(ctx context.Context, cred Credentials, productID string) (*domain.WishlistView, error) {
	if err := a.api.RemoveWishlistItem(ctx, cred.Token, productID); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *WishlistAccessor) Clear(ctx context.Context, cred Credentials) (*domain.WishlistView, error) {
	if err := a.api.ClearWishlist(ctx, cred.Token); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *WishlistAccessor) refetch(ctx context.Context, cred Credentials) (*domain.WishlistView, error) {
	invalidate(a.cache, cred.UserID)
	a.sfg.Forget(cred.UserID)
	return a.Get(ctx, cred)
}
