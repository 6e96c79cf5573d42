package order

import "testing"

func TestShippingFee(t *testing.T) {
	rules := PricingRules{DefaultShippingFee: 500, FreeShippingThreshold: 50000}

	tests := []struct {
		subtotal float64
		want     float64
	}{
		{60000, 0},
		{50000, 0},
		{49999.99, 500},
		{10000, 500},
		{0, 500},
	}
	for _, tt := range tests {
		if got := rules.ShippingFee(tt.subtotal); got != tt.want {
			t.Errorf("ShippingFee(%v) = %v, want %v", tt.subtotal, got, tt.want)
		}
	}
}

func TestTax(t *testing.T) {
	rules := PricingRules{TaxRate: 0.05}
	if got := rules.Tax(20000); got != 1000 {
		t.Errorf("Tax(20000) = %v, want 1000", got)
	}

	zero := PricingRules{}
	if got := zero.Tax(20000); got != 0 {
		t.Errorf("zero rate Tax(20000) = %v, want 0", got)
	}
}
