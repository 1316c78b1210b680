package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// Store abstracts the persistence layer for scheduling operations.
// *storage.DB satisfies it; tests use an in-memory fake. Every mutating
// method is expected to execute as one atomic transaction and to surface
// date collisions as ErrScheduleConflict.
type Store interface {
	GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	SlotsForCycle(ctx context.Context, cycleID uuid.UUID) ([]models.WorkoutSlot, error)
	SlotExercisesForCycle(ctx context.Context, cycleID uuid.UUID) ([]models.SlotExercise, error)

	// InsertSchedule persists a materialized batch atomically, skipping rows
	// whose (cycle, slot, week) already exist. Returns the number inserted.
	InsertSchedule(ctx context.Context, rows []models.ScheduledWorkout, exercises [][]models.ScheduledExercise) (int, error)

	GetScheduledWorkout(ctx context.Context, id uuid.UUID) (*models.ScheduledWorkout, error)

	// MoveScheduledWorkout updates date and week number and replaces the
	// frozen prescriptions in one transaction.
	MoveScheduledWorkout(ctx context.Context, id uuid.UUID, date time.Time, week int, exercises []models.ScheduledExercise) error

	SetScheduledStatus(ctx context.Context, id uuid.UUID, status string) error
	LinkWorkoutLog(ctx context.Context, id, logID uuid.UUID) error
	MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Event is a post-commit schedule notification. Delivery is best-effort:
// sink failures never roll back or fail a scheduling mutation.
type Event struct {
	Type       string    `json:"type"` // workout_scheduled, workout_rescheduled, workout_skipped, workout_completed
	UserID     int       `json:"user_id"`
	CycleID    uuid.UUID `json:"cycle_id"`
	WorkoutID  uuid.UUID `json:"workout_id,omitempty"`
	Date       time.Time `json:"date,omitempty"`
	WeekNumber int       `json:"week_number,omitempty"`
	Count      int       `json:"count,omitempty"`
}

// EventSink receives schedule events after the owning transaction commits.
type EventSink interface {
	ScheduleEvent(ctx context.Context, ev Event)
}

// Engine drives materialization and reconciliation of scheduled workouts.
type Engine struct {
	store  Store
	events EventSink
	log    *slog.Logger
}

// NewEngine creates a scheduling engine. events may be nil.
func NewEngine(store Store, events EventSink, log *slog.Logger) *Engine {
	return &Engine{store: store, events: events, log: log}
}

// Materialize expands an activated cycle into concrete scheduled workouts.
// Idempotent: re-running skips (cycle, slot, week) rows that already exist,
// so edits made to dates in between are preserved. The whole batch persists
// in one transaction; partial materialization is never visible.
func (e *Engine) Materialize(ctx context.Context, cycleID uuid.UUID, preferred []time.Weekday) (int, error) {
	cycle, err := e.store.GetCycle(ctx, cycleID)
	if err != nil {
		return 0, err
	}
	slots, err := e.store.SlotsForCycle(ctx, cycleID)
	if err != nil {
		return 0, fmt.Errorf("loading slots: %w", err)
	}
	exercises, err := e.store.SlotExercisesForCycle(ctx, cycleID)
	if err != nil {
		return 0, fmt.Errorf("loading slot exercises: %w", err)
	}

	planned, err := BuildSchedule(cycle, slots, exercises, preferred)
	if err != nil {
		return 0, err
	}

	rows := make([]models.ScheduledWorkout, len(planned))
	frozen := make([][]models.ScheduledExercise, len(planned))
	for i, p := range planned {
		rows[i] = models.ScheduledWorkout{
			ID:            uuid.New(),
			UserID:        cycle.UserID,
			CycleID:       cycle.ID,
			SlotID:        p.Slot.ID,
			ScheduledDate: p.Date,
			WeekNumber:    p.WeekNumber,
			Status:        models.ScheduledStatusScheduled,
		}
		frozen[i] = p.Exercises
	}

	inserted, err := e.store.InsertSchedule(ctx, rows, frozen)
	if err != nil {
		return 0, fmt.Errorf("persisting schedule: %w", err)
	}
	if inserted > 0 {
		e.emit(ctx, Event{Type: "workout_scheduled", UserID: cycle.UserID, CycleID: cycle.ID, Count: inserted})
	}
	return inserted, nil
}

// Reschedule moves a scheduled workout to a new date within the cycle's
// bounds. The week number is recomputed from the new date, and the frozen
// prescriptions are re-resolved against the new week, since crossing a week
// boundary changes which week-specific override applies.
func (e *Engine) Reschedule(ctx context.Context, id uuid.UUID, newDate time.Time) (*models.ScheduledWorkout, error) {
	sw, err := e.store.GetScheduledWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if sw.Status != models.ScheduledStatusScheduled {
		return nil, fmt.Errorf("%w: cannot reschedule a %s workout", ErrInvalidTransition, sw.Status)
	}

	cycle, err := e.store.GetCycle(ctx, sw.CycleID)
	if err != nil {
		return nil, err
	}
	if newDate.Before(cycle.StartDate) || newDate.After(cycle.EndDate) {
		return nil, fmt.Errorf("%w: %s outside cycle bounds [%s, %s]", ErrConfiguration,
			newDate.Format("2006-01-02"), cycle.StartDate.Format("2006-01-02"), cycle.EndDate.Format("2006-01-02"))
	}

	week := WeekNumberFor(cycle.StartDate, newDate)

	slots, err := e.store.SlotsForCycle(ctx, sw.CycleID)
	if err != nil {
		return nil, fmt.Errorf("loading slots: %w", err)
	}
	var slot *models.WorkoutSlot
	for i := range slots {
		if slots[i].ID == sw.SlotID {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %s: %w", sw.SlotID, ErrNotFound)
	}
	exercises, err := e.store.SlotExercisesForCycle(ctx, sw.CycleID)
	if err != nil {
		return nil, fmt.Errorf("loading slot exercises: %w", err)
	}

	if err := e.store.MoveScheduledWorkout(ctx, id, newDate, week, freezeExercises(cycle, *slot, exercises, week)); err != nil {
		return nil, err
	}

	sw.ScheduledDate = newDate
	sw.WeekNumber = week
	e.emit(ctx, Event{Type: "workout_rescheduled", UserID: sw.UserID, CycleID: sw.CycleID, WorkoutID: sw.ID, Date: newDate, WeekNumber: week})
	return sw, nil
}

// Skip marks a scheduled workout skipped. Skipping an already-skipped
// workout is a no-op; skipping a completed one is rejected.
func (e *Engine) Skip(ctx context.Context, id uuid.UUID) (*models.ScheduledWorkout, error) {
	sw, err := e.store.GetScheduledWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	switch sw.Status {
	case models.ScheduledStatusSkipped:
		return sw, nil
	case models.ScheduledStatusCompleted:
		return nil, fmt.Errorf("%w: workout already completed", ErrInvalidTransition)
	}
	if sw.WorkoutLogID != nil {
		return nil, fmt.Errorf("%w: workout has a linked log", ErrInvalidTransition)
	}

	if err := e.store.SetScheduledStatus(ctx, id, models.ScheduledStatusSkipped); err != nil {
		return nil, err
	}
	sw.Status = models.ScheduledStatusSkipped
	e.emit(ctx, Event{Type: "workout_skipped", UserID: sw.UserID, CycleID: sw.CycleID, WorkoutID: sw.ID, Date: sw.ScheduledDate})
	return sw, nil
}

// Complete links a performed workout log to a scheduled instance and marks
// it completed. Completing a skipped or missed workout is allowed (the user
// correcting history); re-completing with the same log is a no-op.
func (e *Engine) Complete(ctx context.Context, id, logID uuid.UUID) (*models.ScheduledWorkout, error) {
	sw, err := e.store.GetScheduledWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if sw.Status == models.ScheduledStatusCompleted {
		if sw.WorkoutLogID != nil && *sw.WorkoutLogID == logID {
			return sw, nil
		}
		return nil, fmt.Errorf("%w: workout already completed with a different log", ErrInvalidTransition)
	}

	if err := e.store.LinkWorkoutLog(ctx, id, logID); err != nil {
		return nil, err
	}
	sw.Status = models.ScheduledStatusCompleted
	sw.WorkoutLogID = &logID
	e.emit(ctx, Event{Type: "workout_completed", UserID: sw.UserID, CycleID: sw.CycleID, WorkoutID: sw.ID, Date: sw.ScheduledDate})
	return sw, nil
}

// MarkMissed sweeps scheduled workouts whose date is strictly before asOf
// into the missed state. Only rows still in 'scheduled' are touched, so a
// completion always preempts the sweep regardless of timing. Idempotent and
// safe to run repeatedly or out of order.
func (e *Engine) MarkMissed(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := e.store.MarkMissedBefore(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("missed sweep: %w", err)
	}
	if n > 0 && e.log != nil {
		e.log.Info("missed sweep", "marked", n, "as_of", asOf.Format("2006-01-02"))
	}
	return n, nil
}

// emit dispatches an event after the owning mutation committed. Fire and
// forget: the sink runs on its own goroutine with a detached context.
func (e *Engine) emit(ctx context.Context, ev Event) {
	if e.events == nil {
		return
	}
	go e.events.ScheduleEvent(context.WithoutCancel(ctx), ev)
}
