package storefront

import (
	"context"

	"github.com/google/uuid"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/domain"
)

type Wishlist struct {
	backend WishlistBackend
	session auth.Session
	seq     *Sequencer
	lane    string
}

func (w *Wishlist) IsLoading() bool {
	return w.session.Loading()
}

func (w *Wishlist) IsAuthenticated() bool {
	return w.session.Authenticated()
}

func (w *Wishlist) Snapshot(ctx context.Context) (*domain.WishlistView, error) {
	return w.backend.Get(ctx)
}

// AddItem is idempotent per product.
func (w *Wishlist) AddItem(ctx context.Context, product domain.Product) (*domain.WishlistView, error) {
	item := domain.WishlistItem{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Image:       product.Image,
		Variant:     product.Variant,
	}
	var view *domain.WishlistView
	err := w.mutate(ctx, func() error {
		var err error
		view, err = w.backend.Add(ctx, item)
		return err
	})
	return view, err
}

func (w *Wishlist) RemoveItem(ctx context.Context, productID string) (*domain.WishlistView, error) {
	var view *domain.WishlistView
	err := w.mutate(ctx, func() error {
		var err error
		view, err = w.backend.Remove(ctx, productID)
		return err
	})
	return view, err
}

func (w *Wishlist) Clear(ctx context.Context) (*domain.WishlistView, error) {
	var view *domain.WishlistView
	err := w.mutate(ctx, func() error {
		var err error
		view, err = w.backend.Clear(ctx)
		return err
	})
	return view, err
}

func (w *Wishlist) mutate(ctx context.Context, fn func() error) error {
	if w.lane == "" {
		return fn()
	}
	return w.seq.Do(ctx, w.lane, fn)
}
