package guest

import "github.com/electro-atlas/storefront/internal/domain"

type Wishlist struct {
	items []domain.WishlistItem
}

func NewWishlist(items []domain.WishlistItem) Wishlist {
	return Wishlist{items: cloneWishlistItems(items)}
}

func (w Wishlist) Items() []domain.WishlistItem {
	return cloneWishlistItems(w.items)
}

func (w Wishlist) Len() int {
	return len(w.items)
}

// Add appends the item unless its product is already present.
func (w Wishlist) Add(item domain.WishlistItem) Wishlist {
	if w.Contains(item.ProductID) {
		return w
	}
	return Wishlist{items: append(cloneWishlistItems(w.items), item)}
}

func (w Wishlist) Remove(productID string) Wishlist {
	items := make([]domain.WishlistItem, 0, len(w.items))
	for _, item := range w.items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	return Wishlist{items: items}
}

func (w Wishlist) Clear() Wishlist {
	return Wishlist{items: []domain.WishlistItem{}}
}

func (w Wishlist) Contains(productID string) bool {
	for _, item := range w.items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (w Wishlist) View(ownerID string) domain.WishlistView {
	return domain.WishlistView{
		UserID:     ownerID,
		ItemsCount: len(w.items),
		Items:      w.Items(),
	}
}

func cloneWishlistItems(items []domain.WishlistItem) []domain.WishlistItem {
	out := make([]domain.WishlistItem, len(items))
	copy(out, items)
	return out
}
