package models

import "time"

// User is an account identified by its Tailscale login name.
type User struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeen    time.Time `json:"last_seen"`
}

// UserSettings holds per-user training preferences. PreferredDays are
// time.Weekday values (0 = Sunday) in the order slots map onto them.
type UserSettings struct {
	UserID         int    `json:"user_id"`
	DaysPerWeek    int    `json:"days_per_week"`
	PreferredDays  []int  `json:"preferred_days"`
	SplitType      string `json:"split_type"`
	PRRepThreshold int    `json:"pr_rep_threshold"`
	WebhookURL     string `json:"webhook_url,omitempty"`
}
