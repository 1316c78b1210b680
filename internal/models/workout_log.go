package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutLog is an actually-performed workout. It is an independently owned
// entity: deleting a cycle removes its scheduled plan, never the logs.
type WorkoutLog struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int        `json:"user_id"`
	Name        string     `json:"name"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// WorkoutLogSet is one performed set within a workout log.
type WorkoutLogSet struct {
	ID           uuid.UUID `json:"id"`
	WorkoutLogID uuid.UUID `json:"workout_log_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	SetNumber    int       `json:"set_number"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	IsWarmup     bool      `json:"is_warmup"`
}
