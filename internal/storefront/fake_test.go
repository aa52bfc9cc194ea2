package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/electro-atlas/storefront/internal/localstore"
	"github.com/electro-atlas/storefront/internal/remote"
)

// fakeCommerce stands in for the remote commerce API. It records every
// call so tests can check what went over the wire.
type fakeCommerce struct {
	mu        sync.Mutex
	products  map[string]domain.Product
	cart      []domain.CartItem
	wishlist  []domain.WishlistItem
	calls     []string
	err       error
	checkouts int
}

func newFakeCommerce(products ...domain.Product) *fakeCommerce {
	f := &fakeCommerce{products: make(map[string]domain.Product)}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCommerce) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeCommerce) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeCommerce) GetCart(context.Context, string) (*domain.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetCart"); err != nil {
		return nil, err
	}
	var amount int64
	for _, item := range f.cart {
		amount += item.TotalPrice
	}
	return &domain.CartView{
		CartItems:     append([]domain.CartItem{}, f.cart...),
		Amount:        amount,
		AmountDecimal: domain.FormatMinor(amount),
	}, nil
}

func (f *fakeCommerce) AddCartItem(_ context.Context, _, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddCartItem"); err != nil {
		return err
	}
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity += quantity
			f.cart[i].Reprice()
			return nil
		}
	}
	p := f.products[productID]
	item := domain.CartItem{Product: p.Ref(), UnitSalePrice: p.SalePrice, Quantity: quantity}
	item.Reprice()
	f.cart = append(f.cart, item)
	return nil
}

func (f *fakeCommerce) UpdateCartItem(_ context.Context, _, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateCartItem"); err != nil {
		return err
	}
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity = quantity
			f.cart[i].Reprice()
		}
	}
	return nil
}

func (f *fakeCommerce) RemoveCartItem(_ context.Context, _, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveCartItem"); err != nil {
		return err
	}
	kept := f.cart[:0]
	for _, item := range f.cart {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	f.cart = kept
	return nil
}

func (f *fakeCommerce) ClearCart(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ClearCart"); err != nil {
		return err
	}
	f.cart = nil
	return nil
}

func (f *fakeCommerce) GetWishlist(context.Context, string) (*domain.WishlistView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetWishlist"); err != nil {
		return nil, err
	}
	return &domain.WishlistView{
		WishlistID: "w-1",
		UserID:     "u-1",
		ItemsCount: len(f.wishlist),
		Items:      append([]domain.WishlistItem{}, f.wishlist...),
	}, nil
}

func (f *fakeCommerce) AddWishlistItem(_ context.Context, _ string, item domain.WishlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddWishlistItem"); err != nil {
		return err
	}
	f.wishlist = append(f.wishlist, item)
	return nil
}

func (f *fakeCommerce) RemoveWishlistItem(_ context.Context, _, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RemoveWishlistItem"); err != nil {
		return err
	}
	kept := f.wishlist[:0]
	for _, item := range f.wishlist {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.wishlist = kept
	return nil
}

func (f *fakeCommerce) ClearWishlist(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ClearWishlist"); err != nil {
		return err
	}
	f.wishlist = nil
	return nil
}

func (f *fakeCommerce) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, commerce.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCommerce) SearchProducts(_ context.Context, _ string, page int) (*commerce.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SearchProducts"); err != nil {
		return nil, err
	}
	result := &commerce.ProductPage{Page: page}
	for _, p := range f.products {
		result.Products = append(result.Products, p)
	}
	result.Total = len(result.Products)
	return result, nil
}

func (f *fakeCommerce) Checkout(context.Context, string) (*commerce.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Checkout"); err != nil {
		return nil, err
	}
	f.checkouts++
	f.cart = nil
	return &commerce.CheckoutSession{OrderID: "order-1", CheckoutURL: "https://pay.example/order-1"}, nil
}

type failingBackend struct{}

func (failingBackend) Load(context.Context, string) ([]byte, error) {
	return nil, localstore.ErrNotFound
}

func (failingBackend) Save(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (failingBackend) Delete(context.Context, string) error {
	return errors.New("storage disabled")
}

// flakyBackend wraps a working backend and fails reads while broken is set.
type flakyBackend struct {
	*localstore.MemoryBackend
	mu     sync.Mutex
	broken bool
}

func (b *flakyBackend) setBroken(broken bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.broken = broken
}

func (b *flakyBackend) Load(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	broken := b.broken
	b.mu.Unlock()
	if broken {
		return nil, errors.New("storage read failed")
	}
	return b.MemoryBackend.Load(ctx, key)
}

func newFlakyService(t *testing.T, api *fakeCommerce) (*Service, *flakyBackend) {
	backend := &flakyBackend{MemoryBackend: localstore.NewMemoryBackend(0)}
	t.Cleanup(func() { backend.MemoryBackend.Close() })
	svc, _ := newTestService(t, backend, api)
	return svc, backend
}

var (
	phone  = domain.Product{ID: "p1", Name: "Phone", SalePrice: 1000, Inventory: 3}
	laptop = domain.Product{ID: "p2", Name: "Laptop", SalePrice: 250000, Inventory: 5}

	member = auth.Session{
		State: auth.StateAuthenticated,
		User:  &domain.User{ID: "u-1", Email: "ana@example.com"},
		Token: "token-1",
	}
	pending = auth.Session{State: auth.StateUnknown}
)

func newTestService(t *testing.T, backend localstore.Backend, api *fakeCommerce) (*Service, *localstore.Store) {
	t.Helper()
	store := localstore.New(backend, "atlas")
	svc := NewService(Deps{
		Store:     store,
		Carts:     remote.NewCartAccessor(api, cache.NewMemoryCache[domain.CartView](time.Minute)),
		Wishlists: remote.NewWishlistAccessor(api, cache.NewMemoryCache[domain.WishlistView](time.Minute)),
		Catalog:   api,
		Checkout:  api,
	})
	return svc, store
}

func newMemoryService(t *testing.T, api *fakeCommerce) (*Service, *localstore.Store) {
	backend := localstore.NewMemoryBackend(0)
	t.Cleanup(func() { backend.Close() })
	return newTestService(t, backend, api)
}
