package domain

type WishlistItem struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Image       string `json:"image,omitempty"`
	Variant     string `json:"variant,omitempty"`
}

// WishlistView matches the data envelope of GET /wishlist.
type WishlistView struct {
	WishlistID string         `json:"wishlistId,omitempty"`
	UserID     string         `json:"userId,omitempty"`
	ItemsCount int            `json:"itemsCount"`
	Items      []WishlistItem `json:"items"`
}

func (v WishlistView) Contains(productID string) bool {
	for _, item := range v.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
