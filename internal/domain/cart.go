package domain

type CartItem struct {
	Product           ProductRef `json:"product"`
	UnitSalePrice     int64      `json:"unitSalePrice,omitempty"`
	Quantity          int        `json:"quantity"`
	TotalPrice        int64      `json:"totalPrice"`
	TotalPriceDecimal string     `json:"totalPriceDecimal"`
}

// Reprice recomputes the derived totals from the unit price and quantity.
func (i *CartItem) Reprice() {
	i.TotalPrice = i.UnitSalePrice * int64(i.Quantity)
	i.TotalPriceDecimal = FormatMinor(i.TotalPrice)
}

// CartView is the read model shared by guest and server carts. Its JSON
// shape matches the data envelope of GET /cart.
type CartView struct {
	CartItems     []CartItem `json:"cartItems"`
	Amount        int64      `json:"amount"`
	AmountDecimal string     `json:"amountDecimal"`
}

func EmptyCartView() CartView {
	return CartView{
		CartItems:     []CartItem{},
		Amount:        0,
		AmountDecimal: FormatMinor(0),
	}
}

func (v CartView) QuantityOf(productID string) int {
	for _, item := range v.CartItems {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

func (v CartView) Count() int {
	n := 0
	for _, item := range v.CartItems {
		n += item.Quantity
	}
	return n
}
