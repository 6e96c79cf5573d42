package cart

import (
	"database/sql"

	"github.com/voltdepot/genstore-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	cartLinesQuery = `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id
	`
	cartItemsQuery = `
		SELECT p.product_id, p.name, p.sku, p.item_type, p.price, p.stock, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.product_id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY p.product_id
	`
	// merge semantics: insert or add to the existing quantity
	upsertCartItemQuery = `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`
	dropEmptyCartItemQuery = `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND quantity <= 0
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Lines(userID int) ([]Line, error) {
	rows, err := r.db.Query(cartLinesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.ProductID, &ln.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Items(userID int) ([]CartItem, error) {
	rows, err := r.db.Query(cartItemsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CartItem, 0)
	for rows.Next() {
		var it CartItem
		var itemType string
		if err := rows.Scan(&it.ProductID, &it.Name, &it.SKU, &itemType, &it.Price, &it.Stock, &it.Quantity); err != nil {
			return nil, err
		}
		it.ItemType = product.ItemType(itemType)
		it.LineTotal = it.Price * float64(it.Quantity)
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Add(userID, productID, qty int) error {
	if _, err := r.db.Exec(upsertCartItemQuery, userID, productID, qty); err != nil {
		return err
	}
	_, err := r.db.Exec(dropEmptyCartItemQuery, userID, productID)
	return err
}

func (r *PostgresRepository) Clear(userID int) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
