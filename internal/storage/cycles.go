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

// cycleColumns is the SELECT list shared by every cycle query.
const cycleColumns = `id, user_id, name, start_date, end_date, length_weeks, days_per_week,
	 split_type, rotation_weeks, starts_heavy, status, copied_from_cycle_id, created_at, completed_at`

// validCycleTransitions enumerates the allowed status moves. Completed and
// abandoned are terminal.
var validCycleTransitions = map[string][]string{
	models.CycleStatusPlanned: {models.CycleStatusActive, models.CycleStatusAbandoned},
	models.CycleStatusActive:  {models.CycleStatusCompleted, models.CycleStatusAbandoned},
}

// CreateCyclePlan inserts a cycle with its slots and slot exercises in one
// transaction. The caller supplies fully-built rows with IDs assigned.
func (db *DB) CreateCyclePlan(ctx context.Context, cycle *models.Cycle, slots []models.WorkoutSlot, exercises []models.SlotExercise) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO cycles (id, user_id, name, start_date, end_date, length_weeks, days_per_week,
		 split_type, rotation_weeks, starts_heavy, status, copied_from_cycle_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		cycle.ID, cycle.UserID, cycle.Name, cycle.StartDate, cycle.EndDate,
		cycle.LengthWeeks, cycle.DaysPerWeek, cycle.SplitType, cycle.RotationWeeks,
		cycle.StartsHeavy, cycle.Status, cycle.CopiedFromID)
	if err != nil {
		return fmt.Errorf("inserting cycle: %w", err)
	}

	for _, s := range slots {
		_, err = tx.Exec(ctx,
			`INSERT INTO cycle_workout_slots (id, cycle_id, day_of_week, name, is_heavy, order_index, week_pattern)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			s.ID, s.CycleID, s.DayOfWeek, s.Name, s.IsHeavy, s.OrderIndex, s.WeekPattern)
		if err != nil {
			return fmt.Errorf("inserting slot: %w", err)
		}
	}

	if err := insertSlotExercises(ctx, tx, exercises); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertSlotExercises(ctx context.Context, tx pgx.Tx, exercises []models.SlotExercise) error {
	if len(exercises) == 0 {
		return nil
	}
	query := `INSERT INTO cycle_slot_exercises (id, cycle_id, slot_id, exercise_id, is_heavy, order_index,
	 sets_heavy, sets_light, rep_range_heavy, rep_range_light, rest_seconds_heavy, rest_seconds_light, week_number) VALUES `
	args := make([]any, 0, len(exercises)*13)
	valueStrings := make([]string, 0, len(exercises))
	for i, e := range exercises {
		base := i * 13
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
			base+8, base+9, base+10, base+11, base+12, base+13,
		))
		args = append(args, e.ID, e.CycleID, e.SlotID, e.ExerciseID, e.IsHeavy, e.OrderIndex,
			e.SetsHeavy, e.SetsLight, e.RepRangeHeavy, e.RepRangeLight, e.RestHeavy, e.RestLight, e.WeekNumber)
	}
	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting slot exercises: %w", err)
	}
	return nil
}

// GetCycle retrieves a cycle by ID.
func (db *DB) GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = $1`, id)
	c, err := scanCycle(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("cycle %s", id))
	}
	return c, nil
}

// ListCycles retrieves a user's cycles, newest first.
func (db *DB) ListCycles(ctx context.Context, userID int) ([]models.Cycle, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE user_id = $1 ORDER BY start_date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying cycles: %w", err)
	}
	defer rows.Close()

	var result []models.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning cycle: %w", err)
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func scanCycle(row interface{ Scan(dest ...any) error }) (*models.Cycle, error) {
	var c models.Cycle
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.StartDate, &c.EndDate, &c.LengthWeeks,
		&c.DaysPerWeek, &c.SplitType, &c.RotationWeeks, &c.StartsHeavy, &c.Status,
		&c.CopiedFromID, &c.CreatedAt, &c.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SlotsForCycle retrieves a cycle's workout slots ordered by position.
func (db *DB) SlotsForCycle(ctx context.Context, cycleID uuid.UUID) ([]models.WorkoutSlot, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, cycle_id, day_of_week, name, is_heavy, order_index, week_pattern
		 FROM cycle_workout_slots WHERE cycle_id = $1 ORDER BY day_of_week, order_index`,
		cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSlot
	for rows.Next() {
		var s models.WorkoutSlot
		if err := rows.Scan(&s.ID, &s.CycleID, &s.DayOfWeek, &s.Name, &s.IsHeavy, &s.OrderIndex, &s.WeekPattern); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SlotExercisesForCycle retrieves every slot exercise of a cycle, joined with
// the catalog for display names.
func (db *DB) SlotExercisesForCycle(ctx context.Context, cycleID uuid.UUID) ([]models.SlotExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT se.id, se.cycle_id, se.slot_id, se.exercise_id, e.name, e.muscle_group,
		 se.is_heavy, se.order_index, se.sets_heavy, se.sets_light,
		 se.rep_range_heavy, se.rep_range_light, se.rest_seconds_heavy, se.rest_seconds_light, se.week_number
		 FROM cycle_slot_exercises se
		 JOIN exercises e ON e.id = se.exercise_id
		 WHERE se.cycle_id = $1
		 ORDER BY se.slot_id, se.order_index`,
		cycleID)
	if err != nil {
		return nil, fmt.Errorf("querying slot exercises: %w", err)
	}
	defer rows.Close()

	var result []models.SlotExercise
	for rows.Next() {
		var e models.SlotExercise
		if err := rows.Scan(&e.ID, &e.CycleID, &e.SlotID, &e.ExerciseID, &e.ExerciseName, &e.MuscleGroup,
			&e.IsHeavy, &e.OrderIndex, &e.SetsHeavy, &e.SetsLight,
			&e.RepRangeHeavy, &e.RepRangeLight, &e.RestHeavy, &e.RestLight, &e.WeekNumber); err != nil {
			return nil, fmt.Errorf("scanning slot exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpdateCycleStatus moves a cycle to a new status, enforcing the lifecycle:
// planned → active → completed|abandoned. Invalid moves return
// ErrInvalidTransition; end states set completed_at.
func (db *DB) UpdateCycleStatus(ctx context.Context, id uuid.UUID, newStatus string) (*models.Cycle, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+cycleColumns+` FROM cycles WHERE id = $1 FOR UPDATE`, id)
	c, err := scanCycle(row)
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("cycle %s", id))
	}

	if !transitionAllowed(c.Status, newStatus) {
		return nil, fmt.Errorf("%w: cycle is %s, cannot move to %s", schedule.ErrInvalidTransition, c.Status, newStatus)
	}

	var completedAt *time.Time
	if newStatus == models.CycleStatusCompleted || newStatus == models.CycleStatusAbandoned {
		now := time.Now().UTC()
		completedAt = &now
	}
	_, err = tx.Exec(ctx, `UPDATE cycles SET status = $2, completed_at = $3 WHERE id = $1`,
		id, newStatus, completedAt)
	if err != nil {
		return nil, fmt.Errorf("updating cycle status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	c.Status = newStatus
	c.CompletedAt = completedAt
	return c, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range validCycleTransitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

// DeepCopyCycle clones a cycle definition (slots and exercises, fresh IDs)
// into a new planned cycle for userID starting at startDate. Schedule and
// history are never carried over.
func (db *DB) DeepCopyCycle(ctx context.Context, sourceID uuid.UUID, userID int, name string, startDate time.Time) (*models.Cycle, error) {
	src, err := db.GetCycle(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	slots, err := db.SlotsForCycle(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	exercises, err := db.SlotExercisesForCycle(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = src.Name + " (copy)"
	}
	clone := &models.Cycle{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		StartDate:     startDate,
		EndDate:       models.CycleEndDate(startDate, src.LengthWeeks),
		LengthWeeks:   src.LengthWeeks,
		DaysPerWeek:   src.DaysPerWeek,
		SplitType:     src.SplitType,
		RotationWeeks: src.RotationWeeks,
		StartsHeavy:   src.StartsHeavy,
		Status:        models.CycleStatusPlanned,
		CopiedFromID:  &src.ID,
	}

	slotIDs := make(map[uuid.UUID]uuid.UUID, len(slots))
	newSlots := make([]models.WorkoutSlot, len(slots))
	for i, s := range slots {
		newID := uuid.New()
		slotIDs[s.ID] = newID
		s.ID = newID
		s.CycleID = clone.ID
		newSlots[i] = s
	}
	newExercises := make([]models.SlotExercise, len(exercises))
	for i, e := range exercises {
		e.ID = uuid.New()
		e.CycleID = clone.ID
		e.SlotID = slotIDs[e.SlotID]
		newExercises[i] = e
	}

	if err := db.CreateCyclePlan(ctx, clone, newSlots, newExercises); err != nil {
		return nil, fmt.Errorf("copying cycle: %w", err)
	}
	return clone, nil
}
