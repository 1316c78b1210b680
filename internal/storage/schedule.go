package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
)

var _ schedule.Store = (*DB)(nil)

const scheduledColumns = `id, user_id, cycle_id, slot_id, scheduled_date, week_number, status,
	 workout_log_id, notes, created_at, updated_at`

// InsertSchedule persists a materialized batch in one transaction, skipping
// rows whose (cycle, slot, week) already exist so re-materialization never
// duplicates or rewrites user edits. Returns the number inserted. A date
// collision with another non-skipped workout surfaces as ErrScheduleConflict.
func (db *DB) InsertSchedule(ctx context.Context, rows []models.ScheduledWorkout, exercises [][]models.ScheduledExercise) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	cycleID := rows[0].CycleID

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// A moved row keeps its (slot, week) identity even after crossing onto
	// another week's dates, so existence is checked per pair rather than
	// enforced by a unique index.
	existing := make(map[string]bool)
	exRows, err := tx.Query(ctx,
		`SELECT slot_id, week_number FROM scheduled_workouts WHERE cycle_id = $1`, cycleID)
	if err != nil {
		return 0, fmt.Errorf("querying existing schedule: %w", err)
	}
	for exRows.Next() {
		var slotID uuid.UUID
		var week int
		if err := exRows.Scan(&slotID, &week); err != nil {
			exRows.Close()
			return 0, fmt.Errorf("scanning existing schedule: %w", err)
		}
		existing[fmt.Sprintf("%s/%d", slotID, week)] = true
	}
	exRows.Close()
	if err := exRows.Err(); err != nil {
		return 0, err
	}

	inserted := 0
	for i, row := range rows {
		if existing[fmt.Sprintf("%s/%d", row.SlotID, row.WeekNumber)] {
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO scheduled_workouts (id, user_id, cycle_id, slot_id, scheduled_date, week_number, status)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			row.ID, row.UserID, row.CycleID, row.SlotID, row.ScheduledDate, row.WeekNumber, row.Status)
		if err != nil {
			if isUniqueViolation(err, "") {
				return 0, fmt.Errorf("%s already has a workout: %w",
					row.ScheduledDate.Format("2006-01-02"), schedule.ErrScheduleConflict)
			}
			return 0, fmt.Errorf("inserting scheduled workout: %w", err)
		}
		if err := insertFrozenExercises(ctx, tx, row.ID, exercises[i]); err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

func insertFrozenExercises(ctx context.Context, tx pgx.Tx, workoutID uuid.UUID, frozen []models.ScheduledExercise) error {
	if len(frozen) == 0 {
		return nil
	}
	query := `INSERT INTO scheduled_workout_exercises (id, scheduled_workout_id, exercise_id, exercise_name,
	 muscle_group, is_heavy, order_index, sets, rep_range, rest_seconds) VALUES `
	args := make([]any, 0, len(frozen)*10)
	valueStrings := make([]string, 0, len(frozen))
	for i, e := range frozen {
		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		id := e.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		args = append(args, id, workoutID, e.ExerciseID, e.ExerciseName,
			e.MuscleGroup, e.IsHeavy, e.OrderIndex, e.Sets, e.RepRange, e.RestSeconds)
	}
	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting frozen prescriptions: %w", err)
	}
	return nil
}

// GetScheduledWorkout retrieves a scheduled workout by ID.
func (db *DB) GetScheduledWorkout(ctx context.Context, id uuid.UUID) (*models.ScheduledWorkout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_workouts WHERE id = $1`, id)
	sw, err := scanScheduled(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("scheduled workout %s", id))
	}
	return sw, nil
}

func scanScheduled(row interface{ Scan(dest ...any) error }) (*models.ScheduledWorkout, error) {
	var sw models.ScheduledWorkout
	err := row.Scan(&sw.ID, &sw.UserID, &sw.CycleID, &sw.SlotID, &sw.ScheduledDate, &sw.WeekNumber,
		&sw.Status, &sw.WorkoutLogID, &sw.Notes, &sw.CreatedAt, &sw.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// MoveScheduledWorkout updates date and week number and replaces the frozen
// prescriptions in one transaction. A partial unique index keeps one live
// workout per (user, date); violations map to ErrScheduleConflict.
func (db *DB) MoveScheduledWorkout(ctx context.Context, id uuid.UUID, date time.Time, week int, exercises []models.ScheduledExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE scheduled_workouts SET scheduled_date = $2, week_number = $3, updated_at = NOW() WHERE id = $1`,
		id, date, week)
	if err != nil {
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%s already has a workout: %w", date.Format("2006-01-02"), schedule.ErrScheduleConflict)
		}
		return fmt.Errorf("moving scheduled workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled workout %s: %w", id, schedule.ErrNotFound)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM scheduled_workout_exercises WHERE scheduled_workout_id = $1`, id); err != nil {
		return fmt.Errorf("clearing prescriptions: %w", err)
	}
	if err := insertFrozenExercises(ctx, tx, id, exercises); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetScheduledStatus updates the status of a scheduled workout.
func (db *DB) SetScheduledStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE scheduled_workouts SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled workout %s: %w", id, schedule.ErrNotFound)
	}
	return nil
}

// LinkWorkoutLog marks a scheduled workout completed and attaches the log.
func (db *DB) LinkWorkoutLog(ctx context.Context, id, logID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE scheduled_workouts SET status = $2, workout_log_id = $3, updated_at = NOW() WHERE id = $1`,
		id, models.ScheduledStatusCompleted, logID)
	if err != nil {
		return fmt.Errorf("linking workout log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("scheduled workout %s: %w", id, schedule.ErrNotFound)
	}
	return nil
}

// MarkMissedBefore flips scheduled workouts dated strictly before cutoff into
// the missed state. Only rows still in 'scheduled' are touched.
func (db *DB) MarkMissedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE scheduled_workouts SET status = $1, updated_at = NOW()
		 WHERE status = $2 AND scheduled_date < $3`,
		models.ScheduledStatusMissed, models.ScheduledStatusScheduled, cutoff)
	if err != nil {
		return 0, fmt.Errorf("marking missed: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySchedule retrieves a user's scheduled workouts in a date range,
// earliest first.
func (db *DB) QuerySchedule(ctx context.Context, userID int, from, to time.Time) ([]models.ScheduledWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_workouts
		 WHERE user_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
		 ORDER BY scheduled_date, created_at`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledWorkout
	for rows.Next() {
		sw, err := scanScheduled(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheduled workout: %w", err)
		}
		result = append(result, *sw)
	}
	return result, rows.Err()
}

// NextScheduled returns the user's earliest upcoming workout still in the
// scheduled state, on or after asOf.
func (db *DB) NextScheduled(ctx context.Context, userID int, asOf time.Time) (*models.ScheduledWorkout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_workouts
		 WHERE user_id = $1 AND status = $2 AND scheduled_date >= $3
		 ORDER BY scheduled_date LIMIT 1`,
		userID, models.ScheduledStatusScheduled, asOf)
	sw, err := scanScheduled(row)
	if err != nil {
		return nil, notFound(err, "next scheduled workout")
	}
	return sw, nil
}

// ScheduledExercisesFor retrieves the frozen prescriptions of one scheduled
// workout in slot order.
func (db *DB) ScheduledExercisesFor(ctx context.Context, workoutID uuid.UUID) ([]models.ScheduledExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, scheduled_workout_id, exercise_id, exercise_name, muscle_group,
		 is_heavy, order_index, sets, rep_range, rest_seconds
		 FROM scheduled_workout_exercises WHERE scheduled_workout_id = $1 ORDER BY order_index`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying prescriptions: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledExercise
	for rows.Next() {
		var e models.ScheduledExercise
		if err := rows.Scan(&e.ID, &e.ScheduledWorkoutID, &e.ExerciseID, &e.ExerciseName, &e.MuscleGroup,
			&e.IsHeavy, &e.OrderIndex, &e.Sets, &e.RepRange, &e.RestSeconds); err != nil {
			return nil, fmt.Errorf("scanning prescription: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
