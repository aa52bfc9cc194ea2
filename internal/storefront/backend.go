package storefront

import (
	"context"
	"fmt"

	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/internal/guest"
	"github.com/electro-atlas/storefront/internal/localstore"
	"github.com/electro-atlas/storefront/internal/remote"
)

// CartBackend is one storage strategy for a cart. The façade picks the guest
// or the server implementation once per request. Add applies the inventory
// guard to the same cart state it mutates.
type CartBackend interface {
	Get(ctx context.Context) (*domain.CartView, error)
	Add(ctx context.Context, product domain.Product, quantity int) (*domain.CartView, error)
	Update(ctx context.Context, productID string, quantity int) (*domain.CartView, error)
	Remove(ctx context.Context, productID string) (*domain.CartView, error)
	Clear(ctx context.Context) (*domain.CartView, error)
}

type WishlistBackend interface {
	Get(ctx context.Context) (*domain.WishlistView, error)
	Add(ctx context.Context, item domain.WishlistItem) (*domain.WishlistView, error)
	Remove(ctx context.Context, productID string) (*domain.WishlistView, error)
	Clear(ctx context.Context) (*domain.WishlistView, error)
}

type guestCart struct {
	store *localstore.Store
	key   string
}

// load reads the cart a mutation starts from. A failed read aborts the
// mutation; writing back an empty cart would lose the stored one.
func (g guestCart) load(ctx context.Context) (guest.Cart, error) {
	items, err := localstore.Load[[]domain.CartItem](ctx, g.store, g.key)
	if err != nil {
		return guest.Cart{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return guest.NewCart(items), nil
}

// save persists next; on failure the caller gets the state it started from.
func (g guestCart) save(ctx context.Context, prev, next guest.Cart) (*domain.CartView, error) {
	if !localstore.Set(ctx, g.store, g.key, next.Items()) {
		view := prev.View()
		return &view, ErrStorageUnavailable
	}
	view := next.View()
	return &view, nil
}

// Get is a plain read and degrades to an empty cart like any storage read.
func (g guestCart) Get(ctx context.Context) (*domain.CartView, error) {
	view := guest.NewCart(localstore.Get(ctx, g.store, g.key, []domain.CartItem{})).View()
	return &view, nil
}

func (g guestCart) Add(ctx context.Context, product domain.Product, quantity int) (*domain.CartView, error) {
	cart, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	quantity, err = allowance(product, cart.QuantityOf(product.ID), quantity)
	if err != nil {
		return nil, err
	}
	next, err := cart.Add(product, quantity)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, cart, next)
}

func (g guestCart) Update(ctx context.Context, productID string, quantity int) (*domain.CartView, error) {
	cart, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := cart.UpdateQuantity(productID, quantity)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, cart, next)
}

func (g guestCart) Remove(ctx context.Context, productID string) (*domain.CartView, error) {
	cart, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, cart, cart.Remove(productID))
}

func (g guestCart) Clear(ctx context.Context) (*domain.CartView, error) {
	cart, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, cart, cart.Clear())
}

type serverCart struct {
	accessor *remote.CartAccessor
	cred     remote.Credentials
}

func (s serverCart) Get(ctx context.Context) (*domain.CartView, error) {
	return s.accessor.Get(ctx, s.cred)
}

func (s serverCart) Add(ctx context.Context, product domain.Product, quantity int) (*domain.CartView, error) {
	current, err := s.accessor.Get(ctx, s.cred)
	if err != nil {
		return nil, err
	}
	quantity, err = allowance(product, current.QuantityOf(product.ID), quantity)
	if err != nil {
		return nil, err
	}
	return s.accessor.Add(ctx, s.cred, product.ID, quantity)
}

func (s serverCart) Update(ctx context.Context, productID string, quantity int) (*domain.CartView, error) {
	return s.accessor.Update(ctx, s.cred, productID, quantity)
}

func (s serverCart) Remove(ctx context.Context, productID string) (*domain.CartView, error) {
	return s.accessor.Remove(ctx, s.cred, productID)
}

func (s serverCart) Clear(ctx context.Context) (*domain.CartView, error) {
	return s.accessor.Clear(ctx, s.cred)
}

type guestWishlist struct {
	store *localstore.Store
	key   string
	owner string
}

func (g guestWishlist) load(ctx context.Context) (guest.Wishlist, error) {
	items, err := localstore.Load[[]domain.WishlistItem](ctx, g.store, g.key)
	if err != nil {
		return guest.Wishlist{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return guest.NewWishlist(items), nil
}

func (g guestWishlist) save(ctx context.Context, prev, next guest.Wishlist) (*domain.WishlistView, error) {
	if !localstore.Set(ctx, g.store, g.key, next.Items()) {
		view := prev.View(g.owner)
		return &view, ErrStorageUnavailable
	}
	view := next.View(g.owner)
	return &view, nil
}

func (g guestWishlist) Get(ctx context.Context) (*domain.WishlistView, error) {
	view := guest.NewWishlist(localstore.Get(ctx, g.store, g.key, []domain.WishlistItem{})).View(g.owner)
	return &view, nil
}

func (g guestWishlist) Add(ctx context.Context, item domain.WishlistItem) (*domain.WishlistView, error) {
	wishlist, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, wishlist, wishlist.Add(item))
}

func (g guestWishlist) Remove(ctx context.Context, productID string) (*domain.WishlistView, error) {
	wishlist, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, wishlist, wishlist.Remove(productID))
}

func (g guestWishlist) Clear(ctx context.Context) (*domain.WishlistView, error) {
	wishlist, err := g.load(ctx)
	if err != nil {
		return nil, err
	}
	return g.save(ctx, wishlist, wishlist.Clear())
}

type serverWishlist struct {
	accessor *remote.WishlistAccessor
	cred     remote.Credentials
}

func (s serverWishlist) Get(ctx context.Context) (*domain.WishlistView, error) {
	return s.accessor.Get(ctx, s.cred)
}

func (s serverWishlist) Add(ctx context.Context, item domain.WishlistItem) (*domain.WishlistView, error) {
	return s.accessor.Add(ctx, s.cred, item)
}

func (s serverWishlist) Remove(ctx context.Context, productID string) (*domain.WishlistView, error) {
	return s.accessor.Remove(ctx, s.cred, productID)
}

func (s serverWishlist) Clear(ctx context.Context) (*domain.WishlistView, error) {
	return s.accessor.Clear(ctx, s.cred)
}

// unavailable backs façades that must not touch any store: a pending
// session or a guest without an id.
type unavailable struct {
	err error
}

func (u unavailable) Get(context.Context) (*domain.CartView, error) { return nil, u.err }
func (u unavailable) Add(context.Context, domain.Product, int) (*domain.CartView, error) {
	return nil, u.err
}
func (u unavailable) Update(context.Context, string, int) (*domain.CartView, error) {
	return nil, u.err
}
func (u unavailable) Remove(context.Context, string) (*domain.CartView, error) { return nil, u.err }
func (u unavailable) Clear(context.Context) (*domain.CartView, error)          { return nil, u.err }

type unavailableWishlist struct {
	err error
}

func (u unavailableWishlist) Get(context.Context) (*domain.WishlistView, error) { return nil, u.err }
func (u unavailableWishlist) Add(context.Context, domain.WishlistItem) (*domain.WishlistView, error) {
	return nil, u.err
}
func (u unavailableWishlist) Remove(context.Context, string) (*domain.WishlistView, error) {
	return nil, u.err
}
func (u unavailableWishlist) Clear(context.Context) (*domain.WishlistView, error) { return nil, u.err }
