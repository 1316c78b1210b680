package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalRecord is the current best lift per (user, exercise), ranked by
// estimated 1RM. Superseded in place; every supersession is appended to the
// pr_history ledger.
type PersonalRecord struct {
	ID             uuid.UUID  `json:"id"`
	UserID         int        `json:"user_id"`
	ExerciseID     uuid.UUID  `json:"exercise_id"`
	ExerciseName   string     `json:"exercise_name"`
	WeightKg       float64    `json:"weight_kg"`
	Reps           int        `json:"reps"`
	Estimated1RM   float64    `json:"estimated_1rm"`
	AchievedAt     time.Time  `json:"achieved_at"`
	PreviousWeight *float64   `json:"previous_weight,omitempty"`
	WorkoutLogID   *uuid.UUID `json:"workout_log_id,omitempty"`
}

// PRHistoryEntry is one row of the append-only PR ledger.
type PRHistoryEntry struct {
	ID           uuid.UUID `json:"id"`
	UserID       int       `json:"user_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	Estimated1RM float64   `json:"estimated_1rm"`
	AchievedAt   time.Time `json:"achieved_at"`
}

// WeightSuggestion is a progressive-overload recommendation for one exercise
// in one week of a cycle.
type WeightSuggestion struct {
	ID              uuid.UUID  `json:"id"`
	UserID          int        `json:"user_id"`
	CycleID         uuid.UUID  `json:"cycle_id"`
	ExerciseID      uuid.UUID  `json:"exercise_id"`
	WeekNumber      int        `json:"week_number"`
	IsHeavy         bool       `json:"is_heavy"`
	SuggestedWeight float64    `json:"suggested_weight"`
	BasedOnLogID    *uuid.UUID `json:"based_on_log_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
