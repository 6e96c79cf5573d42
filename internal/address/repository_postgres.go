package address

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `address_id, user_id, label, recipient, phone, address_line, city, created_at, updated_at`

	listAddressesQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY address_id
	`
	getAddressQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE address_id = $1
	`
	insertAddressQuery = `
		INSERT INTO addresses (user_id, label, recipient, phone, address_line, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING address_id
	`
	updateAddressQuery = `
		UPDATE addresses
		SET label = $1, recipient = $2, phone = $3, address_line = $4, city = $5, updated_at = $6
		WHERE address_id = $7
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAddress(row interface{ Scan(dest ...any) error }) (Address, error) {
	var a Address
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Recipient, &a.Phone,
		&a.AddressLine, &a.City, &createdAt, &updatedAt)
	if err != nil {
		return Address{}, err
	}
	a.CreatedAt = createdAt.String
	a.UpdatedAt = updatedAt.String
	return a, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *PostgresRepository) GetByID(id int) (Address, error) {
	a, err := scanAddress(r.db.QueryRow(getAddressQuery, id))
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) Create(a Address) (Address, error) {
	err := r.db.QueryRow(insertAddressQuery,
		a.UserID, a.Label, a.Recipient, a.Phone, a.AddressLine, a.City,
		a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) Update(id int, a Address) (Address, error) {
	res, err := r.db.Exec(updateAddressQuery,
		a.Label, a.Recipient, a.Phone, a.AddressLine, a.City, a.UpdatedAt, id)
	if err != nil {
		return Address{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Address{}, err
	}
	if affected == 0 {
		return Address{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM addresses WHERE address_id = $1`, id)
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
