package product

// ItemType discriminates the two kinds of catalog items the shop sells.
type ItemType string

const (
	ItemTypeGenerator ItemType = "GENERATOR"
	ItemTypePart      ItemType = "PART"
)

// ValidItemType reports whether t is one of the supported item types.
func ValidItemType(t ItemType) bool {
	return t == ItemTypeGenerator || t == ItemTypePart
}

// Product represents a catalog item and maps to the `products` table.
// JSON tags follow the camelCase convention used across the API.
type Product struct {
	ID          int      `json:"productId"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	SKU         string   `json:"sku"`
	ItemType    ItemType `json:"itemType"`
	Brand       *string  `json:"brand,omitempty"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	// Wattage is set for generators only.
	Wattage   *int    `json:"wattage,omitempty"`
	Category  *string `json:"category,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}
