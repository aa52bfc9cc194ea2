package storefront

import (
	"context"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/domain"
)

// Cart is the per-request cart façade. The same calls work for guests and
// authenticated users.
type Cart struct {
	backend CartBackend
	session auth.Session
	seq     *Sequencer
	lane    string
}

func (c *Cart) IsLoading() bool {
	return c.session.Loading()
}

func (c *Cart) IsAuthenticated() bool {
	return c.session.Authenticated()
}

func (c *Cart) Snapshot(ctx context.Context) (*domain.CartView, error) {
	return c.backend.Get(ctx)
}

// MaxAvailableQuantity is the inventory not yet in the cart. It can be
// negative when stock dropped below what the cart holds.
func (c *Cart) MaxAvailableQuantity(ctx context.Context, product domain.Product) (int, error) {
	view, err := c.backend.Get(ctx)
	if err != nil {
		return 0, err
	}
	return product.Available(view.QuantityOf(product.ID)), nil
}

// AddItem adds up to quantity units of product, clamped to what inventory
// still allows. When nothing is left it refuses with
// domain.ErrInsufficientInventory and the cart is unchanged.
func (c *Cart) AddItem(ctx context.Context, product domain.Product, quantity int) (*domain.CartView, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	var view *domain.CartView
	err := c.mutate(ctx, func() error {
		var err error
		view, err = c.backend.Add(ctx, product, quantity)
		return err
	})
	return view, err
}

func (c *Cart) UpdateItem(ctx context.Context, productID string, quantity int) (*domain.CartView, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	var view *domain.CartView
	err := c.mutate(ctx, func() error {
		var err error
		view, err = c.backend.Update(ctx, productID, quantity)
		return err
	})
	return view, err
}

func (c *Cart) RemoveItem(ctx context.Context, productID string) (*domain.CartView, error) {
	var view *domain.CartView
	err := c.mutate(ctx, func() error {
		var err error
		view, err = c.backend.Remove(ctx, productID)
		return err
	})
	return view, err
}

func (c *Cart) Clear(ctx context.Context) (*domain.CartView, error) {
	var view *domain.CartView
	err := c.mutate(ctx, func() error {
		var err error
		view, err = c.backend.Clear(ctx)
		return err
	})
	return view, err
}

// allowance is how many of the requested units fit next to inCart units
// already held, within both inventory and the per-line quantity limit.
func allowance(product domain.Product, inCart, quantity int) (int, error) {
	available := product.Available(inCart)
	if available <= 0 {
		return 0, domain.ErrInsufficientInventory
	}
	if err := domain.ValidateQuantity(inCart + 1); err != nil {
		return 0, err
	}
	return min(quantity, available, domain.MaxQuantity-inCart), nil
}

func (c *Cart) mutate(ctx context.Context, fn func() error) error {
	if c.lane == "" {
		return fn()
	}
	return c.seq.Do(ctx, c.lane, fn)
}
