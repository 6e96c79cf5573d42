package address

// Address is a saved shipping address in a user's address book. Checkout
// can reference one to prefill the order's shipping snapshot.
type Address struct {
	ID          int    `json:"addressId"`
	UserID      int    `json:"userId"`
	Label       string `json:"label"`
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}
