package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListCycles(ctx context.Context, userID int) ([]models.Cycle, error)
	QuerySchedule(ctx context.Context, userID int, from, to time.Time) ([]models.ScheduledWorkout, error)
	NextScheduled(ctx context.Context, userID int, asOf time.Time) (*models.ScheduledWorkout, error)
	ScheduledExercisesFor(ctx context.Context, workoutID uuid.UUID) ([]models.ScheduledExercise, error)
	ListPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecord, error)
	ListWorkoutLogs(ctx context.Context, userID, limit int) ([]models.WorkoutLog, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
