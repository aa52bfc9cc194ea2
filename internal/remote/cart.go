package remote

import (
	"context"
	"errors"
	"log"

	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CartAPI is the part of the commerce API the cart accessor needs.
type CartAPI interface {
	GetCart(ctx context.Context, token string) (*domain.CartView, error)
	AddCartItem(ctx context.Context, token, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, token, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, token, productID string) error
	ClearCart(ctx context.Context, token string) error
}

type CartAccessor struct {
	api   CartAPI
	cache cache.Cache[domain.CartView]
	sfg   singleflight.Group
}

func NewCartAccessor(api CartAPI, c cache.Cache[domain.CartView]) *CartAccessor {
	return &CartAccessor{
		api:   api,
		cache: c,
	}
}

func (a *CartAccessor) Get(ctx context.Context, cred Credentials) (*domain.CartView, error) {
	v, err, _ := a.sfg.Do(cred.UserID, func() (interface{}, error) {
		cart, err := a.cache.Get(ctx, cred.UserID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err) // serve from the API anyway
		}

		cart, err = a.api.GetCart(ctx, cred.Token)
		if err != nil {
			return nil, err
		}

		if errSet := a.cache.Set(ctx, cred.UserID, cart); errSet != nil {
			log.Printf("cart cache set error: %v", errSet)
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	cart := *v.(*domain.CartView)
	cart.CartItems = append([]domain.CartItem(nil), cart.CartItems...)
	return &cart, nil
}

func (a *CartAccessor) Add(ctx context.Context, cred Credentials, productID string, quantity int) (*domain.CartView, error) {
	if err := a.api.AddCartItem(ctx, cred.Token, productID, quantity); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *CartAccessor) Update(ctx context.Context, cred Credentials, productID string, quantity int) (*domain.CartView, error) {
	if err := a.api.UpdateCartItem(ctx, cred.Token, productID, quantity); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *CartAccessor) Remove(ctx context.Context, cred Credentials, productID string) (*domain.CartView, error) {
	if err := a.api.RemoveCartItem(ctx, cred.Token, productID); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

func (a *CartAccessor) Clear(ctx context.Context, cred Credentials) (*domain.CartView, error) {
	if err := a.api.ClearCart(ctx, cred.Token); err != nil {
		return nil, err
	}
	return a.refetch(ctx, cred)
}

// Invalidate drops the cached cart of a user, e.g. after checkout.
func (a *CartAccessor) Invalidate(userID string) {
	invalidate(a.cache, userID)
}

func (a *CartAccessor) refetch(ctx context.Context, cred Credentials) (*domain.CartView, error) {
	a.Invalidate(cred.UserID)
	// a read that started before the mutation must not be shared with us
	a.sfg.Forget(cred.UserID)
	return a.Get(ctx, cred)
}
