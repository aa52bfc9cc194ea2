package domain

// Product is the catalog entry as returned by the commerce API.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	Variant   string `json:"variant,omitempty"`
	SalePrice int64  `json:"salePrice"` // minor units
	Inventory int    `json:"inventory"`
}

// ProductRef is the part of a product that travels with a cart item.
type ProductRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Image   string `json:"image,omitempty"`
	Variant string `json:"variant,omitempty"`
}

func (p Product) Ref() ProductRef {
	return ProductRef{
		ID:      p.ID,
		Name:    p.Name,
		Image:   p.Image,
		Variant: p.Variant,
	}
}

// Available returns how many more units can go into a cart that already
// holds inCart units of this product. The result may be negative.
func (p Product) Available(inCart int) int {
	return p.Inventory - inCart
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}
