package servicerequest

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const serviceRequestColumns = `request_id, user_id, subject, description, service_type, product_id, quoted_amount, admin_notes, status, created_at, updated_at`

const (
	insertServiceRequestQuery = `
		INSERT INTO service_requests (user_id, subject, description, service_type, product_id, quoted_amount, admin_notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING request_id
	`
	getServiceRequestQuery = `
		SELECT ` + serviceRequestColumns + `
		FROM service_requests
		WHERE request_id = $1
	`
	listServiceRequestsByUserQuery = `
		SELECT ` + serviceRequestColumns + `
		FROM service_requests
		WHERE user_id = $1
		ORDER BY request_id DESC
	`
	listServiceRequestsQuery = `
		SELECT ` + serviceRequestColumns + `
		FROM service_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY request_id DESC
	`
	updateServiceRequestQuery = `
		UPDATE service_requests
		SET quoted_amount = $2, admin_notes = $3, status = $4, updated_at = $5
		WHERE request_id = $1
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServiceRequest(row rowScanner) (ServiceRequest, error) {
	var sr ServiceRequest
	var productID sql.NullInt64
	var adminNotes, createdAt, updatedAt sql.NullString
	err := row.Scan(&sr.ID, &sr.UserID, &sr.Subject, &sr.Description, &sr.ServiceType,
		&productID, &sr.QuotedAmount, &adminNotes, &sr.Status, &createdAt, &updatedAt)
	if err != nil {
		return ServiceRequest{}, err
	}
	if productID.Valid {
		id := int(productID.Int64)
		sr.ProductID = &id
	}
	sr.AdminNotes = adminNotes.String
	sr.CreatedAt = createdAt.String
	sr.UpdatedAt = updatedAt.String
	return sr, nil
}

func nullableProductID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func (r *PostgresRepository) Create(sr ServiceRequest) (ServiceRequest, error) {
	err := r.db.QueryRow(insertServiceRequestQuery,
		sr.UserID, sr.Subject, sr.Description, sr.ServiceType, nullableProductID(sr.ProductID),
		sr.QuotedAmount, sr.AdminNotes, sr.Status, sr.CreatedAt, sr.UpdatedAt).Scan(&sr.ID)
	if err != nil {
		return ServiceRequest{}, err
	}
	return sr, nil
}

func (r *PostgresRepository) GetByID(id int) (ServiceRequest, error) {
	sr, err := scanServiceRequest(r.db.QueryRow(getServiceRequestQuery, id))
	if err == sql.ErrNoRows {
		return ServiceRequest{}, ErrNotFound
	}
	return sr, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]ServiceRequest, error) {
	return r.queryList(listServiceRequestsByUserQuery, userID)
}

func (r *PostgresRepository) List(status string) ([]ServiceRequest, error) {
	return r.queryList(listServiceRequestsQuery, status)
}

func (r *PostgresRepository) queryList(query string, arg any) ([]ServiceRequest, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ServiceRequest, 0)
	for rows.Next() {
		sr, err := scanServiceRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Update(sr ServiceRequest) (ServiceRequest, error) {
	res, err := r.db.Exec(updateServiceRequestQuery,
		sr.ID, sr.QuotedAmount, sr.AdminNotes, sr.Status, sr.UpdatedAt)
	if err != nil {
		return ServiceRequest{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return ServiceRequest{}, err
	}
	if affected == 0 {
		return ServiceRequest{}, ErrNotFound
	}
	return sr, nil
}
