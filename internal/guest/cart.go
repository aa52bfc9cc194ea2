// Package guest holds the cart and wishlist of a visitor who is not signed in.
// The containers are values: every operation returns a new state and leaves
// the receiver untouched. Persisting the result is the caller's job.
package guest

import "github.com/electro-atlas/storefront/internal/domain"

type Cart struct {
	items []domain.CartItem
}

func NewCart(items []domain.CartItem) Cart {
	return Cart{items: cloneCartItems(items)}
}

// Items returns a copy of the cart entries.
func (c Cart) Items() []domain.CartItem {
	return cloneCartItems(c.items)
}

func (c Cart) Len() int {
	return len(c.items)
}

// Add merges quantity into an existing entry for the same product or appends
// a new one. The unit price is taken from the product on every add.
func (c Cart) Add(product domain.Product, quantity int) (Cart, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return c, err
	}

	items := cloneCartItems(c.items)
	for i := range items {
		if items[i].Product.ID == product.ID {
			if err := domain.ValidateQuantity(items[i].Quantity + quantity); err != nil {
				return c, err
			}
			items[i].Quantity += quantity
			items[i].UnitSalePrice = product.SalePrice
			items[i].Reprice()
			return Cart{items: items}, nil
		}
	}

	item := domain.CartItem{
		Product:       product.Ref(),
		UnitSalePrice: product.SalePrice,
		Quantity:      quantity,
	}
	item.Reprice()
	return Cart{items: append(items, item)}, nil
}

func (c Cart) Remove(productID string) Cart {
	items := make([]domain.CartItem, 0, len(c.items))
	for _, item := range c.items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	return Cart{items: items}
}

// UpdateQuantity replaces the quantity of an existing entry. Unknown ids are
// a no-op.
func (c Cart) UpdateQuantity(productID string, quantity int) (Cart, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return c, err
	}

	items := cloneCartItems(c.items)
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			items[i].Reprice()
			break
		}
	}
	return Cart{items: items}, nil
}

func (c Cart) Clear() Cart {
	return Cart{items: []domain.CartItem{}}
}

func (c Cart) QuantityOf(productID string) int {
	for _, item := range c.items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Total is the sum of unit price times quantity over all entries.
func (c Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.UnitSalePrice * int64(item.Quantity)
	}
	return total
}

func (c Cart) View() domain.CartView {
	total := c.Total()
	return domain.CartView{
		CartItems:     c.Items(),
		Amount:        total,
		AmountDecimal: domain.FormatMinor(total),
	}
}

func cloneCartItems(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}
