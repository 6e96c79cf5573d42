package product

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func makeProductApp(seed []Product) *fiber.App {
	handler := NewHandler(NewService(NewInMemoryRepository(seed)))
	app := fiber.New()
	handler.RegisterPublicRoutes(app)
	admin := app.Group("/api/admin")
	handler.RegisterAdminRoutes(admin)
	return app
}

func doProductRequest(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	buf, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}
	return res.StatusCode, buf
}

func seedProducts() []Product {
	brand := "PowerGen"
	return []Product{
		{ID: 1, Name: "KVA-5 Generator", Slug: "kva-5-generator", SKU: "GEN-0001", ItemType: ItemTypeGenerator, Brand: &brand, Price: 85000, Stock: 3, Active: true},
		{ID: 2, Name: "Spark Plug", Slug: "spark-plug", SKU: "PRT-0002", ItemType: ItemTypePart, Price: 500, Stock: 50, Active: true},
		{ID: 3, Name: "Retired Model", Slug: "retired-model", SKU: "GEN-0003", ItemType: ItemTypeGenerator, Price: 60000, Stock: 0, Active: false},
	}
}

func TestListProductsFilters(t *testing.T) {
	app := makeProductApp(seedProducts())

	status, body := doProductRequest(t, app, "GET", "/api/products", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var out []Product
	json.Unmarshal(body, &out)
	if len(out) != 2 {
		t.Errorf("default list hides inactive items, expected 2, got %d", len(out))
	}

	_, body = doProductRequest(t, app, "GET", "/api/products?itemType=PART", "")
	json.Unmarshal(body, &out)
	if len(out) != 1 || out[0].SKU != "PRT-0002" {
		t.Errorf("itemType filter failed: %+v", out)
	}

	_, body = doProductRequest(t, app, "GET", "/api/products?all=1", "")
	json.Unmarshal(body, &out)
	if len(out) != 3 {
		t.Errorf("all=1 should include inactive, got %d", len(out))
	}

	status, _ = doProductRequest(t, app, "GET", "/api/products?itemType=WIDGET", "")
	if status != fiber.StatusBadRequest {
		t.Errorf("bad itemType: expected 400, got %d", status)
	}
}

func TestGetProductByIDAndSlug(t *testing.T) {
	app := makeProductApp(seedProducts())

	status, body := doProductRequest(t, app, "GET", "/api/products/1", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var p Product
	json.Unmarshal(body, &p)
	if p.SKU != "GEN-0001" {
		t.Errorf("sku = %q, want GEN-0001", p.SKU)
	}

	status, _ = doProductRequest(t, app, "GET", "/api/products/slug/spark-plug", "")
	if status != fiber.StatusOK {
		t.Errorf("slug lookup: expected 200, got %d", status)
	}

	status, _ = doProductRequest(t, app, "GET", "/api/products/999", "")
	if status != fiber.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", status)
	}
}

func TestAdminCreateProductConflicts(t *testing.T) {
	app := makeProductApp(seedProducts())

	newProduct := `{"name":"KVA-10 Generator","slug":"kva-10-generator","sku":"GEN-0010","itemType":"GENERATOR","price":150000,"stock":2}`
	status, body := doProductRequest(t, app, "POST", "/api/admin/products", newProduct)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", status, body)
	}

	dupSlug := `{"name":"Other","slug":"kva-5-generator","sku":"GEN-0099","itemType":"GENERATOR","price":1,"stock":1}`
	status, _ = doProductRequest(t, app, "POST", "/api/admin/products", dupSlug)
	if status != fiber.StatusConflict {
		t.Errorf("duplicate slug: expected 409, got %d", status)
	}

	dupSKU := `{"name":"Other","slug":"other-slug","sku":"GEN-0001","itemType":"GENERATOR","price":1,"stock":1}`
	status, _ = doProductRequest(t, app, "POST", "/api/admin/products", dupSKU)
	if status != fiber.StatusConflict {
		t.Errorf("duplicate sku: expected 409, got %d", status)
	}

	invalid := `{"name":"","slug":"s","sku":"K","itemType":"GENERATOR","price":1}`
	status, _ = doProductRequest(t, app, "POST", "/api/admin/products", invalid)
	if status != fiber.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", status)
	}
}

func TestAdminUpdateProductKeepsCreatedAt(t *testing.T) {
	seed := seedProducts()
	seed[1].CreatedAt = "2026-01-15T09:00:00Z"
	app := makeProductApp(seed)

	upd := `{"name":"Spark Plug NGK","slug":"spark-plug","sku":"PRT-0002","itemType":"PART","price":550,"stock":50,"active":true}`
	status, body := doProductRequest(t, app, "PUT", "/api/admin/products/2", upd)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	_, body = doProductRequest(t, app, "GET", "/api/products/2", "")
	var got Product
	json.Unmarshal(body, &got)
	if got.Name != "Spark Plug NGK" {
		t.Errorf("name = %s, want Spark Plug NGK", got.Name)
	}
	if got.CreatedAt != "2026-01-15T09:00:00Z" {
		t.Errorf("createdAt = %q, want the original creation time", got.CreatedAt)
	}
}

func TestAdminRestock(t *testing.T) {
	app := makeProductApp(seedProducts())

	status, body := doProductRequest(t, app, "POST", "/api/admin/products/1/restock", `{"quantity":7}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var p Product
	json.Unmarshal(body, &p)
	if p.Stock != 10 {
		t.Errorf("stock = %d, want 10", p.Stock)
	}

	status, _ = doProductRequest(t, app, "POST", "/api/admin/products/1/restock", `{"quantity":0}`)
	if status != fiber.StatusBadRequest {
		t.Errorf("zero quantity: expected 400, got %d", status)
	}

	status, _ = doProductRequest(t, app, "POST", "/api/admin/products/999/restock", `{"quantity":5}`)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown product: expected 404, got %d", status)
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	app := makeProductApp(seedProducts())

	status, _ := doProductRequest(t, app, "DELETE", "/api/admin/products/2", "")
	if status != fiber.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	status, _ = doProductRequest(t, app, "GET", "/api/products/2", "")
	if status != fiber.StatusNotFound {
		t.Errorf("deleted product still served, got %d", status)
	}
}

func TestAdjustStockGuard(t *testing.T) {
	repo := NewInMemoryRepository(seedProducts())

	if err := repo.AdjustStock(1, -3); err != nil {
		t.Fatal(err)
	}
	p, _ := repo.GetByID(1)
	if p.Stock != 0 {
		t.Errorf("stock = %d, want 0", p.Stock)
	}

	if err := repo.AdjustStock(1, -1); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	p, _ = repo.GetByID(1)
	if p.Stock != 0 {
		t.Errorf("failed adjust must not change stock, got %d", p.Stock)
	}

	if err := repo.AdjustStock(999, -1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
