package notification

import "database/sql"

type PostgresRepository struct {
	db *sql.DB
}

const (
	insertNotificationQuery = `
		INSERT INTO notifications (user_id, type, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		RETURNING notification_id
	`
	listNotificationsQuery = `
		SELECT notification_id, user_id, type, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY notification_id DESC
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(n Notification) (Notification, error) {
	err := r.db.QueryRow(insertNotificationQuery,
		n.UserID, n.Type, n.Title, n.Message, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (r *PostgresRepository) ListByUser(userID int) ([]Notification, error) {
	rows, err := r.db.Query(listNotificationsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		var createdAt sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = createdAt.String
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) MarkRead(id, userID int) error {
	res, err := r.db.Exec(`UPDATE notifications SET read = true WHERE notification_id = $1 AND user_id = $2`, id, userID)
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

func (r *PostgresRepository) MarkAllRead(userID int) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = true WHERE user_id = $1`, userID)
	return err
}
