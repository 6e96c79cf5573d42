package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DefaultShippingFee != 500 {
		t.Fatalf("expected default shipping fee 500, got %v", cfg.DefaultShippingFee)
	}
	if cfg.FreeShippingThreshold != 50000 {
		t.Fatalf("expected default free-shipping threshold 50000, got %v", cfg.FreeShippingThreshold)
	}
	if cfg.TaxRate != 0 {
		t.Fatalf("expected default tax rate 0, got %v", cfg.TaxRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DEFAULT_SHIPPING_FEE", "750")
	t.Setenv("FREE_SHIPPING_THRESHOLD", "30000")
	t.Setenv("TAX_RATE", "0.17")
	t.Setenv("ADMIN_EMAILS", "ops@voltdepot.pk,sales@voltdepot.pk")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultShippingFee != 750 {
		t.Fatalf("expected shipping fee 750, got %v", cfg.DefaultShippingFee)
	}
	if cfg.FreeShippingThreshold != 30000 {
		t.Fatalf("expected threshold 30000, got %v", cfg.FreeShippingThreshold)
	}
	if cfg.TaxRate != 0.17 {
		t.Fatalf("expected tax rate 0.17, got %v", cfg.TaxRate)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[0] != "ops@voltdepot.pk" {
		t.Fatalf("unexpected admin emails: %v", cfg.AdminEmails)
	}
}
