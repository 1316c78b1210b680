package models

import (
	"time"

	"github.com/google/uuid"
)

// Cycle lifecycle statuses. Transitions are one-directional:
// planned → active → completed|abandoned. Both end states are terminal.
const (
	CycleStatusPlanned   = "planned"
	CycleStatusActive    = "active"
	CycleStatusCompleted = "completed"
	CycleStatusAbandoned = "abandoned"
)

// Split types supported by the plan generator.
const (
	SplitFullBody   = "full_body"
	SplitUpperLower = "upper_lower"
	SplitPPL        = "ppl"
	SplitCustom     = "custom"
)

// Cycle is a multi-week training block with a fixed weekly slot pattern.
type Cycle struct {
	ID            uuid.UUID  `json:"id"`
	UserID        int        `json:"user_id"`
	Name          string     `json:"name"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	LengthWeeks   int        `json:"length_weeks"`
	DaysPerWeek   int        `json:"days_per_week"`
	SplitType     string     `json:"split_type"`
	RotationWeeks int        `json:"rotation_weeks"`
	StartsHeavy   bool       `json:"starts_heavy"`
	Status        string     `json:"status"`
	CopiedFromID  *uuid.UUID `json:"copied_from_cycle_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// CycleEndDate returns the last day covered by a cycle starting at start
// and running for lengthWeeks full weeks.
func CycleEndDate(start time.Time, lengthWeeks int) time.Time {
	return start.AddDate(0, 0, lengthWeeks*7-1)
}

// WorkoutSlot is a recurring weekly position within a cycle, before it is
// bound to a calendar date. DayOfWeek is the 0-based position within the
// week's training days, not a literal weekday; the materializer maps it
// onto the user's preferred weekdays.
type WorkoutSlot struct {
	ID          uuid.UUID `json:"id"`
	CycleID     uuid.UUID `json:"cycle_id"`
	DayOfWeek   int       `json:"day_of_week"`
	Name        string    `json:"name"`
	IsHeavy     bool      `json:"is_heavy"`
	OrderIndex  int       `json:"order_index"`
	WeekPattern *string   `json:"week_pattern,omitempty"` // nil = every week
}

// SlotExercise is a prescription attached to a workout slot. WeekNumber nil
// means the prescription applies every week; a non-nil value restricts it to
// that single week, overriding the defaults for the slot (deload weeks etc).
type SlotExercise struct {
	ID            uuid.UUID `json:"id"`
	CycleID       uuid.UUID `json:"cycle_id"`
	SlotID        uuid.UUID `json:"cycle_workout_slot_id"`
	ExerciseID    uuid.UUID `json:"exercise_id"`
	ExerciseName  string    `json:"exercise_name"`
	MuscleGroup   string    `json:"muscle_group"`
	IsHeavy       bool      `json:"is_heavy"`
	OrderIndex    int       `json:"order_index"`
	SetsHeavy     int       `json:"sets_heavy"`
	SetsLight     int       `json:"sets_light"`
	RepRangeHeavy string    `json:"rep_range_heavy"`
	RepRangeLight string    `json:"rep_range_light"`
	RestHeavy     int       `json:"rest_seconds_heavy"`
	RestLight     int       `json:"rest_seconds_light"`
	WeekNumber    *int      `json:"week_number,omitempty"`
}

// CycleShare is a short-code handle for sharing a cycle definition.
type CycleShare struct {
	ID          uuid.UUID `json:"id"`
	CycleID     uuid.UUID `json:"cycle_id"`
	UserID      int       `json:"user_id"`
	ShareCode   string    `json:"share_code"`
	IsPublic    bool      `json:"is_public"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CopyCount   int       `json:"copy_count"`
	CreatedAt   time.Time `json:"created_at"`
}
