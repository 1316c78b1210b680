package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is static catalog reference data. Read-only from the scheduler's
// perspective.
type Exercise struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Equipment   string    `json:"equipment"`
	IsCompound  bool      `json:"is_compound"`
	FormCues    string    `json:"form_cues,omitempty"`
}

// ExerciseNote is a lifter's personal note on one catalog exercise, carried
// across workouts (bench heights, grip cues, what aggravates the shoulder).
type ExerciseNote struct {
	UserID     int       `json:"user_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	Note       string    `json:"note"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NotificationEntry is one row of the best-effort notification log.
type NotificationEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"user_id"`
	Type         string    `json:"type"`
	Channel      string    `json:"channel"`
	ReferenceID  string    `json:"reference_id,omitempty"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}
