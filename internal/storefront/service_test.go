package storefront

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/electro-atlas/storefront/internal/auth"
	"github.com/electro-atlas/storefront/internal/commerce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToCart_LooksUpProduct(t *testing.T) {
	svc, _ := newMemoryService(t, newFakeCommerce(phone))
	ctx := context.Background()

	view, err := svc.AddToCart(ctx, auth.Anonymous(), "guest-1", "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, view.QuantityOf("p1"))

	_, err = svc.AddToCart(ctx, auth.Anonymous(), "guest-1", "missing", 1)
	assert.ErrorIs(t, err, commerce.ErrNotFound)

	left, err := svc.MaxAvailable(ctx, auth.Anonymous(), "guest-1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, left)
}

func TestAddToCart_ConcurrentGuestAddsRespectInventory(t *testing.T) {
	svc, _ := newMemoryService(t, newFakeCommerce(laptop))
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.AddToCart(ctx, auth.Anonymous(), "guest-1", "p2", 1)
		}()
	}
	wg.Wait()

	view, err := svc.Cart(auth.Anonymous(), "guest-1").Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, laptop.Inventory, view.QuantityOf("p2"))
}

func TestAddToWishlist(t *testing.T) {
	svc, _ := newMemoryService(t, newFakeCommerce(phone))

	view, err := svc.AddToWishlist(context.Background(), auth.Anonymous(), "guest-1", "p1")
	require.NoError(t, err)
	assert.True(t, view.Contains("p1"))
}

func TestSearch_RecordsHistory(t *testing.T) {
	api := newFakeCommerce(phone)
	svc, _ := newMemoryService(t, api)
	ctx := context.Background()

	page, err := svc.Search(ctx, "guest-1", "phone", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = svc.Search(ctx, "guest-1", "  ", 1)
	require.NoError(t, err)

	history, err := svc.History("guest-1").List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"phone"}, history)
}

func TestHistory_MostRecentFirstDeduplicated(t *testing.T) {
	svc, _ := newMemoryService(t, newFakeCommerce())
	ctx := context.Background()
	history := svc.History("guest-1")

	for _, q := range []string{"laptop", "phone", "Laptop"} {
		_, err := history.Record(ctx, q)
		require.NoError(t, err)
	}

	got, err := history.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "phone"}, got)

	require.NoError(t, history.Clear(ctx))
	got, err = history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistory_Bounded(t *testing.T) {
	svc, _ := newMemoryService(t, newFakeCommerce())
	ctx := context.Background()
	history := svc.History("guest-1")

	for i := range DefaultHistoryLimit + 5 {
		_, err := history.Record(ctx, fmt.Sprintf("query %d", i))
		require.NoError(t, err)
	}

	got, err := history.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, DefaultHistoryLimit)
	assert.Equal(t, fmt.Sprintf("query %d", DefaultHistoryLimit+4), got[0])
}

func TestCheckout(t *testing.T) {
	api := newFakeCommerce(phone)
	svc, _ := newMemoryService(t, api)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, auth.Anonymous())
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = svc.Checkout(ctx, pending)
	assert.ErrorIs(t, err, ErrSessionPending)

	_, err = svc.Cart(member, "").AddItem(ctx, phone, 1)
	require.NoError(t, err)

	session, err := svc.Checkout(ctx, member)
	require.NoError(t, err)
	assert.Equal(t, "order-1", session.OrderID)

	// cached cart was dropped, so the emptied server cart is read again
	view, err := svc.Cart(member, "").Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, view.CartItems)
}

func TestHistory_ReadFailureKeepsStoredQueries(t *testing.T) {
	svc, backend := newFlakyService(t, newFakeCommerce())
	ctx := context.Background()
	history := svc.History("guest-1")

	_, err := history.Record(ctx, "laptop")
	require.NoError(t, err)

	backend.setBroken(true)
	_, err = history.Record(ctx, "phone")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	backend.setBroken(false)

	got, err := history.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"laptop"}, got)
}
