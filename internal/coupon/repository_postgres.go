package coupon

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	couponColumns = `coupon_id, code, discount_type, value, min_order_amount, max_discount, usage_limit, per_user_limit, usage_count, starts_at, expires_at, active, created_at, updated_at`

	listCouponsQuery = `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY coupon_id
	`
	getCouponByIDQuery = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE coupon_id = $1
	`
	getCouponByCodeQuery = `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE lower(code) = lower($1)
	`
	insertCouponQuery = `
		INSERT INTO coupons (code, discount_type, value, min_order_amount, max_discount, usage_limit, per_user_limit, usage_count, starts_at, expires_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12)
		RETURNING coupon_id
	`
	updateCouponQuery = `
		UPDATE coupons
		SET code = $1, discount_type = $2, value = $3, min_order_amount = $4,
			max_discount = $5, usage_limit = $6, per_user_limit = $7,
			starts_at = $8, expires_at = $9, active = $10, updated_at = $11
		WHERE coupon_id = $12
	`
	countRedemptionsQuery = `
		SELECT COUNT(*)
		FROM coupon_redemptions
		WHERE coupon_id = $1 AND user_id = $2
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// uniqueViolation maps a 23505 on the code constraint to ErrCodeExists;
// anything else passes through unchanged.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrCodeExists
	}
	return err
}

func scanCoupon(row interface{ Scan(dest ...any) error }) (Coupon, error) {
	var c Coupon
	var startsAt, expiresAt, createdAt, updatedAt sql.NullString
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.Value, &c.MinOrderAmount,
		&c.MaxDiscount, &c.UsageLimit, &c.PerUserLimit, &c.UsageCount,
		&startsAt, &expiresAt, &c.Active, &createdAt, &updatedAt)
	if err != nil {
		return Coupon{}, err
	}
	c.StartsAt = startsAt.String
	c.ExpiresAt = expiresAt.String
	c.CreatedAt = createdAt.String
	c.UpdatedAt = updatedAt.String
	return c, nil
}

func (r *PostgresRepository) List() []Coupon {
	rows, err := r.db.Query(listCouponsQuery)
	if err != nil {
		return []Coupon{}
	}
	defer rows.Close()

	out := make([]Coupon, 0)
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(getCouponByIDQuery, id))
	if err == sql.ErrNoRows {
		return Coupon{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) GetByCode(code string) (Coupon, error) {
	c, err := scanCoupon(r.db.QueryRow(getCouponByCodeQuery, code))
	if err == sql.ErrNoRows {
		return Coupon{}, ErrNotFound
	}
	return c, err
}

func (r *PostgresRepository) Create(c Coupon) (Coupon, error) {
	err := r.db.QueryRow(insertCouponQuery,
		c.Code, string(c.DiscountType), c.Value, c.MinOrderAmount, c.MaxDiscount,
		c.UsageLimit, c.PerUserLimit, c.StartsAt, c.ExpiresAt, c.Active,
		c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return Coupon{}, uniqueViolation(err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(id int, c Coupon) (Coupon, error) {
	res, err := r.db.Exec(updateCouponQuery,
		c.Code, string(c.DiscountType), c.Value, c.MinOrderAmount, c.MaxDiscount,
		c.UsageLimit, c.PerUserLimit, c.StartsAt, c.ExpiresAt, c.Active,
		c.UpdatedAt, id)
	if err != nil {
		return Coupon{}, uniqueViolation(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Coupon{}, err
	}
	if affected == 0 {
		return Coupon{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM coupons WHERE coupon_id = $1`, id)
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

func (r *PostgresRepository) CountRedemptions(couponID, userID int) (int, error) {
	var n int
	err := r.db.QueryRow(countRedemptionsQuery, couponID, userID).Scan(&n)
	return n, err
}

func (r *PostgresRepository) Redeem(couponID, userID, orderID int) error {
	if _, err := r.db.Exec(`UPDATE coupons SET usage_count = usage_count + 1 WHERE coupon_id = $1`, couponID); err != nil {
		return err
	}
	_, err := r.db.Exec(`INSERT INTO coupon_redemptions (coupon_id, user_id, order_id) VALUES ($1, $2, $3)`, couponID, userID, orderID)
	return err
}
