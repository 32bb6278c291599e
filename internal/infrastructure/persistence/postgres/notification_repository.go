package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

const createNotificationSQL = `
INSERT INTO notifications (user_id, message, type, data, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING notification_id, created_at;
`

const listNotificationsByRecipientSQL = `
SELECT notification_id, user_id, message, type, data, status, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC, notification_id DESC
LIMIT $2;
`

const listUnreadNotificationsAfterSQL = `
SELECT notification_id, user_id, message, type, data, status, created_at
FROM notifications
WHERE status = 'Unread' AND notification_id > $1
ORDER BY created_at ASC, notification_id ASC
LIMIT $2;
`

const markNotificationReadSQL = `
UPDATE notifications SET status = 'Read'
WHERE notification_id = $1 AND user_id = $2;
`

// NotificationRepository implements ports.NotificationRepository on pgx.
type NotificationRepository struct {
	db dbtx
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.Type == "" {
		n.Type = domain.NotificationTypeInfo
	}
	if n.Status == "" {
		n.Status = domain.NotificationUnread
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return err
	}
	return r.db.QueryRow(ctx, createNotificationSQL,
		n.UserID, n.Message, n.Type, data, string(n.Status),
	).Scan(&n.ID, &n.CreatedAt)
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, listNotificationsByRecipientSQL, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *NotificationRepository) ListUnreadAfter(ctx context.Context, afterID int64, limit int) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, listUnreadNotificationsAfterSQL, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, markNotificationReadSQL, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanNotifications(rows pgx.Rows) ([]domain.Notification, error) {
	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var status string
		var data []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &data, &status, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Status = domain.NotificationStatus(status)
		if len(data) > 0 {
			// A row with unparseable payload still renders; the payload is lost.
			_ = json.Unmarshal(data, &n.Data)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)
