package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository persists delivered and failed notifications.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// InsertSent records a notification that has been delivered.
func (r *NotificationRepository) InsertSent(ctx context.Context, userID uuid.UUID, notifType string, payload json.RawMessage, channel model.NotificationChannel, sentAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (user_id, type, payload, channel, status, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, notifType, payload, channel, model.NotificationSent, sentAt)
	return err
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, type, payload, channel, status, sent_at, error, created_at, updated_at
		 FROM notifications WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Payload, &n.Channel,
			&n.Status, &n.SentAt, &n.Error, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
