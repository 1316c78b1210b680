package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/repcycle/internal/models"
)

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id int) (*models.User, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, login, display_name, created_at, last_seen FROM users WHERE id = $1`, id)
	var u models.User
	if err := row.Scan(&u.ID, &u.Login, &u.DisplayName, &u.CreatedAt, &u.LastSeen); err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

// GetSettings retrieves a user's training settings, with defaults for users
// who never saved any.
func (db *DB) GetSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT user_id, days_per_week, preferred_days, split_type, pr_rep_threshold, webhook_url
		 FROM user_settings WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return &models.UserSettings{
			UserID:         userID,
			DaysPerWeek:    3,
			PreferredDays:  []int{1, 3, 5}, // Mon/Wed/Fri
			SplitType:      models.SplitFullBody,
			PRRepThreshold: 5,
		}, nil
	}

	var s models.UserSettings
	var days []int32
	if err := rows.Scan(&s.UserID, &s.DaysPerWeek, &days, &s.SplitType, &s.PRRepThreshold, &s.WebhookURL); err != nil {
		return nil, fmt.Errorf("scanning settings: %w", err)
	}
	s.PreferredDays = make([]int, len(days))
	for i, d := range days {
		s.PreferredDays[i] = int(d)
	}
	return &s, rows.Err()
}

// SaveSettings upserts a user's training settings.
func (db *DB) SaveSettings(ctx context.Context, s *models.UserSettings) error {
	days := make([]int32, len(s.PreferredDays))
	for i, d := range s.PreferredDays {
		days[i] = int32(d)
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, days_per_week, preferred_days, split_type, pr_rep_threshold, webhook_url)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET days_per_week = $2, preferred_days = $3, split_type = $4, pr_rep_threshold = $5, webhook_url = $6`,
		s.UserID, s.DaysPerWeek, days, s.SplitType, s.PRRepThreshold, s.WebhookURL)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
