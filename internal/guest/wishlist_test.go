package guest

import (
	"testing"

	"github.com/electro-atlas/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWishlistAdd_Idempotent(t *testing.T) {
	item := domain.WishlistItem{ID: "w1", ProductID: "p1", ProductName: "Phone"}

	w := Wishlist{}.Add(item)
	w = w.Add(domain.WishlistItem{ID: "w2", ProductID: "p1", ProductName: "Phone"})

	assert.Equal(t, 1, w.Len())
	assert.Equal(t, "w1", w.Items()[0].ID)
}

func TestWishlistRemoveAndClear(t *testing.T) {
	w := Wishlist{}.
		Add(domain.WishlistItem{ID: "w1", ProductID: "p1"}).
		Add(domain.WishlistItem{ID: "w2", ProductID: "p2"})

	w = w.Remove("p1")
	assert.False(t, w.Contains("p1"))
	assert.True(t, w.Contains("p2"))

	w = w.Remove("absent")
	assert.Equal(t, 1, w.Len())

	assert.Equal(t, 0, w.Clear().Len())
}

func TestWishlistView(t *testing.T) {
	w := Wishlist{}.Add(domain.WishlistItem{ID: "w1", ProductID: "p1"})

	view := w.View("guest-1")
	assert.Equal(t, "guest-1", view.UserID)
	assert.Equal(t, 1, view.ItemsCount)
	assert.True(t, view.Contains("p1"))
}
