package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// AppendNotification records a dispatch attempt in the notification log.
// Best-effort channel: callers log and swallow errors from here.
func (db *DB) AppendNotification(ctx context.Context, n models.NotificationEntry) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO notification_log (id, user_id, type, channel, reference_id, status, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		n.ID, n.UserID, n.Type, n.Channel, n.ReferenceID, n.Status, n.ErrorMessage)
	if err != nil {
		return fmt.Errorf("appending notification: %w", err)
	}
	return nil
}

// ListNotifications retrieves a user's recent notification log entries.
func (db *DB) ListNotifications(ctx context.Context, userID, limit int) ([]models.NotificationEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, type, channel, reference_id, status, error_message, sent_at
		 FROM notification_log WHERE user_id = $1 ORDER BY sent_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var result []models.NotificationEntry
	for rows.Next() {
		var n models.NotificationEntry
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Channel, &n.ReferenceID,
			&n.Status, &n.ErrorMessage, &n.SentAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
