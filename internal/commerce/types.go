package commerce

import "github.com/electro-atlas/storefront/internal/domain"

// envelope is the {"data": ...} wrapper used by every commerce API response.
type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type cartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

type wishlistItemRequest struct {
	ProductID string               `json:"productId"`
	ItemData  *domain.WishlistItem `json:"itemData,omitempty"`
}

type AuthStatus struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user,omitempty"`
}

type ProductPage struct {
	Products []domain.Product `json:"products"`
	Page     int              `json:"page"`
	Total    int              `json:"total"`
}

type CheckoutSession struct {
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
}
