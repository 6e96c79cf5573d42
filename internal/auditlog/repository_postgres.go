package auditlog

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertEntryQuery = `
		INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING log_id
	`
	listEntriesQuery = `
		SELECT log_id, actor_id, action, entity_type, entity_id, old_value, new_value, created_at
		FROM audit_logs
		WHERE ($1 = '' OR entity_type = $1)
		ORDER BY log_id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(e Entry) (Entry, error) {
	err := r.db.QueryRow(insertEntryQuery,
		e.ActorID, e.Action, e.EntityType, e.EntityID, e.OldValue, e.NewValue, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (r *PostgresRepository) List(entityType string) ([]Entry, error) {
	rows, err := r.db.Query(listEntriesQuery, entityType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var oldValue, newValue, createdAt sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &oldValue, &newValue, &createdAt); err != nil {
			return nil, err
		}
		e.OldValue = oldValue.String
		e.NewValue = newValue.String
		e.CreatedAt = createdAt.String
		out = append(out, e)
	}
	return out, rows.Err()
}
