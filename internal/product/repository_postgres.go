package product

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, name, slug, sku, item_type, brand, description, price, stock, wattage, category, active, created_at, updated_at`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR item_type = $1)
		  AND ($2 = '' OR lower(brand) = lower($2))
		  AND ($3 = '' OR lower(category) = lower($3))
		  AND ($4 = false OR active = true)
		ORDER BY product_id
	`
	getProductByIDQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE product_id = $1
	`
	getProductBySlugQuery = `
		SELECT ` + productColumns + `
		FROM products
		WHERE slug = $1
	`
	insertProductQuery = `
		INSERT INTO products (name, slug, sku, item_type, brand, description, price, stock, wattage, category, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE products
		SET name = $1, slug = $2, sku = $3, item_type = $4, brand = $5,
			description = $6, price = $7, stock = $8, wattage = $9,
			category = $10, active = $11, updated_at = $12
		WHERE product_id = $13
	`
	adjustStockQuery = `
		UPDATE products
		SET stock = stock + $1
		WHERE product_id = $2 AND stock + $1 >= 0
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// uniqueViolation maps a 23505 on the slug/sku constraints to the
// repository sentinels; anything else passes through unchanged.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	if strings.Contains(pgErr.ConstraintName, "sku") {
		return ErrSKUExists
	}
	return ErrSlugExists
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	var brand, category, createdAt, updatedAt sql.NullString
	var wattage sql.NullInt64
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.SKU, &p.ItemType, &brand,
		&p.Description, &p.Price, &p.Stock, &wattage, &category, &p.Active,
		&createdAt, &updatedAt)
	if err != nil {
		return Product{}, err
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if category.Valid {
		p.Category = &category.String
	}
	if wattage.Valid {
		w := int(wattage.Int64)
		p.Wattage = &w
	}
	p.CreatedAt = createdAt.String
	p.UpdatedAt = updatedAt.String
	return p, nil
}

func (r *PostgresRepository) List(f Filter) []Product {
	rows, err := r.db.Query(listProductsQuery, string(f.ItemType), f.Brand, f.Category, f.ActiveOnly)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) GetBySlug(slug string) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductBySlugQuery, slug))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(insertProductQuery,
		p.Name, p.Slug, p.SKU, string(p.ItemType), p.Brand, p.Description,
		p.Price, p.Stock, p.Wattage, p.Category, p.Active, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return Product{}, uniqueViolation(err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	res, err := r.db.Exec(updateProductQuery,
		p.Name, p.Slug, p.SKU, string(p.ItemType), p.Brand, p.Description,
		p.Price, p.Stock, p.Wattage, p.Category, p.Active, p.UpdatedAt, id)
	if err != nil {
		return Product{}, uniqueViolation(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock is guarded in SQL so concurrent checkouts can never drive
// stock negative.
func (r *PostgresRepository) AdjustStock(id int, delta int) error {
	res, err := r.db.Exec(adjustStockQuery, delta, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// row missing or the guard blocked a negative balance
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}
