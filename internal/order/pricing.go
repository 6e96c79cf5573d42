package order

// PricingRules holds the storefront-wide pricing knobs applied at checkout.
type PricingRules struct {
	DefaultShippingFee    float64
	FreeShippingThreshold float64
	TaxRate               float64
}

// ShippingFee is zero once the subtotal reaches the free-shipping threshold,
// otherwise the flat default fee.
func (r PricingRules) ShippingFee(subtotal float64) float64 {
	if subtotal >= r.FreeShippingThreshold {
		return 0
	}
	return r.DefaultShippingFee
}

func (r PricingRules) Tax(subtotal float64) float64 {
	return subtotal * r.TaxRate
}
