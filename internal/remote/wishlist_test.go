package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/electro-atlas/storefront/internal/cache"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWishlistAPI struct {
	m        sync.Mutex
	items    []domain.WishlistItem
	err      error
	getCalls int
}

func (m *mockWishlistAPI) GetWishlist(context.Context, string) (*domain.WishlistView, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	return &domain.WishlistView{
		WishlistID: "wl-1",
		UserID:     "u1",
		ItemsCount: len(m.items),
		Items:      append([]domain.WishlistItem{}, m.items...),
	}, nil
}

func (m *mockWishlistAPI) AddWishlistItem(_ context.Context, _ string, item domain.WishlistItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.items {
		if existing.ProductID == item.ProductID {
			return nil
		}
	}
	m.items = append(m.items, item)
	return nil
}

func (m *mockWishlistAPI) RemoveWishlistItem(_ context.Context, _, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	for i, item := range m.items {
		if item.ProductID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockWishlistAPI) ClearWishlist(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = nil
	return nil
}

func TestWishlistAccessor_Lifecycle(t *testing.T) {
	api := &mockWishlistAPI{}
	sut := NewWishlistAccessor(api, cache.NewMemoryCache[domain.WishlistView](time.Minute))
	ctx := context.Background()

	view, err := sut.Add(ctx, cred, domain.WishlistItem{ID: "w1", ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemsCount)
	assert.True(t, view.Contains("p1"))

	view, err = sut.Add(ctx, cred, domain.WishlistItem{ID: "w2", ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemsCount)

	view, err = sut.Remove(ctx, cred, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemsCount)

	_, err = sut.Add(ctx, cred, domain.WishlistItem{ID: "w3", ProductID: "p3"})
	require.NoError(t, err)
	view, err = sut.Clear(ctx, cred)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestWishlistAccessor_ErrorSurfaces(t *testing.T) {
	boom := errors.New("unavailable")
	api := &mockWishlistAPI{err: boom}
	sut := NewWishlistAccessor(api, cache.NewMemoryCache[domain.WishlistView](time.Minute))

	_, err := sut.Get(context.Background(), cred)
	assert.ErrorIs(t, err, boom)
	_, err = sut.Add(context.Background(), cred, domain.WishlistItem{ProductID: "p1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, api.getCalls)
}
