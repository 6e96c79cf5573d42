package order

import (
	"database/sql"
	"fmt"

	"github.com/voltdepot/genstore-backend/internal/product"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `order_id, order_number, user_id, shipping_name, shipping_phone, shipping_address, shipping_city, subtotal, shipping_fee, tax, discount, total, coupon_code, status, payment_status, payment_method, tracking_number, tracking_carrier, admin_notes, created_at, updated_at`

const (
	insertOrderQuery = `
		INSERT INTO orders (order_number, user_id, shipping_name, shipping_phone, shipping_address, shipping_city, subtotal, shipping_fee, tax, discount, total, coupon_code, status, payment_status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING order_id
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, item_type, name, sku, price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING item_id
	`
	decrementStockQuery = `
		UPDATE products
		SET stock = stock - $1
		WHERE product_id = $2 AND stock - $1 >= 0
	`
	restoreStockQuery = `
		UPDATE products
		SET stock = stock + $1
		WHERE product_id = $2
	`
	redeemCouponQuery = `
		UPDATE coupons
		SET usage_count = usage_count + 1
		WHERE coupon_id = $1
	`
	insertRedemptionQuery = `
		INSERT INTO coupon_redemptions (coupon_id, user_id, order_id)
		VALUES ($1, $2, $3)
	`
	clearCartQuery = `
		DELETE FROM cart_items WHERE user_id = $1
	`
	getOrderQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE order_id = $1
	`
	listOrdersByUserQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY order_id DESC
	`
	listOrdersQuery = `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY order_id DESC
	`
	listOrderItemsQuery = `
		SELECT item_id, product_id, item_type, name, sku, price, quantity, total
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id
	`
	updateOrderQuery = `
		UPDATE orders
		SET status = $2, payment_status = $3, tracking_number = $4, tracking_carrier = $5, admin_notes = $6, updated_at = $7
		WHERE order_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ord Order, couponID int) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	err = tx.QueryRow(insertOrderQuery,
		ord.OrderNumber, ord.UserID, ord.ShippingName, ord.ShippingPhone,
		ord.ShippingAddress, ord.ShippingCity, ord.Subtotal, ord.ShippingFee,
		ord.Tax, ord.Discount, ord.Total, ord.CouponCode, ord.Status,
		ord.PaymentStatus, ord.PaymentMethod, ord.CreatedAt, ord.UpdatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}

	for i, it := range ord.Items {
		err = tx.QueryRow(insertOrderItemQuery,
			ord.ID, it.ProductID, string(it.ItemType), it.Name, it.SKU,
			it.Price, it.Quantity, it.Total).Scan(&ord.Items[i].ID)
		if err != nil {
			return Order{}, err
		}

		res, err := tx.Exec(decrementStockQuery, it.Quantity, it.ProductID)
		if err != nil {
			return Order{}, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return Order{}, err
		}
		if affected == 0 {
			// Either the product vanished or the guard blocked a
			// negative stock. Both abort the checkout.
			return Order{}, fmt.Errorf("product %d: %w", it.ProductID, product.ErrInsufficientStock)
		}
	}

	if couponID > 0 {
		if _, err := tx.Exec(redeemCouponQuery, couponID); err != nil {
			return Order{}, err
		}
		if _, err := tx.Exec(insertRedemptionQuery, couponID, ord.UserID, ord.ID); err != nil {
			return Order{}, err
		}
	}

	if _, err := tx.Exec(clearCartQuery, ord.UserID); err != nil {
		return Order{}, err
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var couponCode, trackingNumber, trackingCarrier, adminNotes, createdAt, updatedAt sql.NullString
	err := row.Scan(&ord.ID, &ord.OrderNumber, &ord.UserID, &ord.ShippingName,
		&ord.ShippingPhone, &ord.ShippingAddress, &ord.ShippingCity,
		&ord.Subtotal, &ord.ShippingFee, &ord.Tax, &ord.Discount, &ord.Total,
		&couponCode, &ord.Status, &ord.PaymentStatus, &ord.PaymentMethod,
		&trackingNumber, &trackingCarrier, &adminNotes, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.CouponCode = couponCode.String
	ord.TrackingNumber = trackingNumber.String
	ord.TrackingCarrier = trackingCarrier.String
	ord.AdminNotes = adminNotes.String
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	return ord, nil
}

func (r *PostgresRepository) loadItems(ord *Order) error {
	rows, err := r.db.Query(listOrderItemsQuery, ord.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	ord.Items = make([]OrderItem, 0)
	for rows.Next() {
		var it OrderItem
		var itemType string
		if err := rows.Scan(&it.ID, &it.ProductID, &itemType, &it.Name, &it.SKU, &it.Price, &it.Quantity, &it.Total); err != nil {
			return err
		}
		it.ItemType = product.ItemType(itemType)
		ord.Items = append(ord.Items, it)
	}
	return rows.Err()
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(getOrderQuery, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if err := r.loadItems(&ord); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	return r.queryList(listOrdersByUserQuery, userID)
}

func (r *PostgresRepository) List(status string) ([]Order, error) {
	return r.queryList(listOrdersQuery, status)
}

func (r *PostgresRepository) queryList(query string, arg any) ([]Order, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadItems(&out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *PostgresRepository) Update(ord Order) (Order, error) {
	res, err := r.db.Exec(updateOrderQuery,
		ord.ID, ord.Status, ord.PaymentStatus, ord.TrackingNumber,
		ord.TrackingCarrier, ord.AdminNotes, ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}
	return ord, nil
}

func (r *PostgresRepository) Cancel(ord Order) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(updateOrderQuery,
		ord.ID, ord.Status, ord.PaymentStatus, ord.TrackingNumber,
		ord.TrackingCarrier, ord.AdminNotes, ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Order{}, err
	}
	if affected == 0 {
		return Order{}, ErrNotFound
	}

	for _, it := range ord.Items {
		if _, err := tx.Exec(restoreStockQuery, it.Quantity, it.ProductID); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}
