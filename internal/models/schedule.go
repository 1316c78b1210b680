package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledWorkout statuses.
const (
	ScheduledStatusScheduled = "scheduled"
	ScheduledStatusCompleted = "completed"
	ScheduledStatusSkipped   = "skipped"
	ScheduledStatusMissed    = "missed"
)

// ScheduledWorkout is a materialized, dated instance of a workout slot.
// Generated once per (cycle, slot, week) by the materializer; the date moves
// on reschedule but rows are never silently deleted.
type ScheduledWorkout struct {
	ID            uuid.UUID  `json:"id"`
	UserID        int        `json:"user_id"`
	CycleID       uuid.UUID  `json:"cycle_id"`
	SlotID        uuid.UUID  `json:"cycle_workout_slot_id"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	WeekNumber    int        `json:"week_number"`
	Status        string     `json:"status"`
	WorkoutLogID  *uuid.UUID `json:"workout_log_id,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ScheduledExercise is the prescription frozen into a scheduled workout at
// materialize (or reschedule) time. Heavy/light and week overrides are
// resolved once here so later edits to the cycle definition do not rewrite
// history.
type ScheduledExercise struct {
	ID                 uuid.UUID `json:"id"`
	ScheduledWorkoutID uuid.UUID `json:"scheduled_workout_id"`
	ExerciseID         uuid.UUID `json:"exercise_id"`
	ExerciseName       string    `json:"exercise_name"`
	MuscleGroup        string    `json:"muscle_group"`
	IsHeavy            bool      `json:"is_heavy"`
	OrderIndex         int       `json:"order_index"`
	Sets               int       `json:"sets"`
	RepRange           string    `json:"rep_range"`
	RestSeconds        int       `json:"rest_seconds"`
}
