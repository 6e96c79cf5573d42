package cart

import "github.com/voltdepot/genstore-backend/internal/product"

// Line is a raw cart entry: a product reference and a quantity.
type Line struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// CartItem is a cart line enriched with the live product record, the shape
// returned by the cart API.
type CartItem struct {
	ProductID int              `json:"productId"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	ItemType  product.ItemType `json:"itemType"`
	Price     float64          `json:"price"`
	Stock     int              `json:"stock"`
	Quantity  int              `json:"quantity"`
	LineTotal float64          `json:"lineTotal"`
}
