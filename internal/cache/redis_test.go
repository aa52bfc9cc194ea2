package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisCache instance
func setupTestRedis(t *testing.T) (*RedisCache[domain.CartView], *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCache[domain.CartView](client, "cart", 15*time.Minute)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return cache, mr, cleanup
}

func sampleCart() *domain.CartView {
	return &domain.CartView{
		CartItems: []domain.CartItem{
			{Product: domain.ProductRef{ID: "p1"}, Quantity: 2, TotalPrice: 2000, TotalPriceDecimal: "20.00"},
			{Product: domain.ProductRef{ID: "p2"}, Quantity: 3, TotalPrice: 300, TotalPriceDecimal: "3.00"},
		},
		Amount:        2300,
		AmountDecimal: "23.00",
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cartJSON, _ := json.Marshal(sampleCart())
	mr.Set(cache.cacheKey("user123"), string(cartJSON))

	result, err := cache.Get(context.Background(), "user123")
	require.NoError(t, err)
	assert.Len(t, result.CartItems, 2)
	assert.Equal(t, "p1", result.CartItems[0].Product.ID)
	assert.Equal(t, int64(2300), result.Amount)
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	result, err := cache.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_InvalidJSON(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cartJSON, err := json.Marshal(sampleCart())
	require.NoError(t, err)
	require.NoError(t, mr.Set(cache.cacheKey("user123"), string(cartJSON[0:10])))

	_, cacheError := cache.Get(context.Background(), "user123")
	require.ErrorContains(t, cacheError, "unmarshal cart failed")
}

func TestSet_WithTTL(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	err := cache.Set(context.Background(), "user789", sampleCart())
	require.NoError(t, err)

	stored, err := mr.Get(cache.cacheKey("user789"))
	require.NoError(t, err)
	var storedCart domain.CartView
	require.NoError(t, json.Unmarshal([]byte(stored), &storedCart))
	assert.Len(t, storedCart.CartItems, 2)

	ttl := mr.TTL(cache.cacheKey("user789"))
	assert.True(t, ttl >= 15*time.Minute, "TTL should be at least base TTL")
	assert.True(t, ttl < 20*time.Minute, "TTL should be below base + max jitter")
}

func TestDelete_Success(t *testing.T) {
	cache, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(cache.cacheKey("user999"), "{}")
	assert.True(t, mr.Exists(cache.cacheKey("user999")))

	require.NoError(t, cache.Delete(context.Background(), "user999"))
	assert.False(t, mr.Exists(cache.cacheKey("user999")))
}

func TestDelete_NonExistentKey(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.NoError(t, cache.Delete(context.Background(), "nonexistent"))
}

func TestCacheKey_Format(t *testing.T) {
	cache, _, cleanup := setupTestRedis(t)
	defer cleanup()

	assert.Equal(t, "cart:test123", cache.cacheKey("test123"))
}
