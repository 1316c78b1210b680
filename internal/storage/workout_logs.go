package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/progress"
)

// LoggedPR is the PR outcome for one exercise of a recorded workout.
type LoggedPR struct {
	ExerciseID   uuid.UUID        `json:"exercise_id"`
	ExerciseName string           `json:"exercise_name"`
	WeightKg     float64          `json:"weight_kg"`
	Reps         int              `json:"reps"`
	Check        progress.PRCheck `json:"check"`
}

// CreateWorkoutLog inserts a workout log with its sets and runs the PR check
// for every exercise in the same transaction, so the log and any record
// supersessions commit or roll back together. Warmup sets never count toward
// records.
func (db *DB) CreateWorkoutLog(ctx context.Context, log *models.WorkoutLog, sets []models.WorkoutLogSet, repThreshold int) ([]LoggedPR, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO workout_logs (id, user_id, name, started_at, completed_at, notes)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		log.ID, log.UserID, log.Name, log.StartedAt, log.CompletedAt, log.Notes)
	if err != nil {
		return nil, fmt.Errorf("inserting workout log: %w", err)
	}
	if err := insertLogSets(ctx, tx, sets); err != nil {
		return nil, err
	}

	prs, err := checkRecords(ctx, tx, log, sets, repThreshold)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return prs, nil
}

func insertLogSets(ctx context.Context, tx pgx.Tx, sets []models.WorkoutLogSet) error {
	if len(sets) == 0 {
		return nil
	}
	query := `INSERT INTO workout_log_sets (id, workout_log_id, exercise_id, set_number, weight_kg, reps, is_warmup) VALUES `
	args := make([]any, 0, len(sets)*7)
	valueStrings := make([]string, 0, len(sets))
	for i, s := range sets {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, s.ID, s.WorkoutLogID, s.ExerciseID, s.SetNumber, s.WeightKg, s.Reps, s.IsWarmup)
	}
	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting log sets: %w", err)
	}
	return nil
}

// bestWorkingSets picks the strongest non-warmup set per exercise by
// estimated 1RM, preserving the order exercises first appear in the log.
func bestWorkingSets(sets []models.WorkoutLogSet) (map[uuid.UUID]models.WorkoutLogSet, []uuid.UUID) {
	best := make(map[uuid.UUID]models.WorkoutLogSet)
	var order []uuid.UUID
	for _, s := range sets {
		if s.IsWarmup || s.WeightKg <= 0 || s.Reps <= 0 {
			continue
		}
		cur, seen := best[s.ExerciseID]
		if !seen {
			order = append(order, s.ExerciseID)
		}
		if !seen || progress.Estimated1RM(s.WeightKg, s.Reps) > progress.Estimated1RM(cur.WeightKg, cur.Reps) {
			best[s.ExerciseID] = s
		}
	}
	return best, order
}

// checkRecords evaluates the best working set per exercise against the stored
// record, superseding the current PR and appending to the ledger on a beat.
// A first record is stored as a baseline without a history entry.
func checkRecords(ctx context.Context, tx pgx.Tx, log *models.WorkoutLog, sets []models.WorkoutLogSet, repThreshold int) ([]LoggedPR, error) {
	best, order := bestWorkingSets(sets)

	names := make(map[uuid.UUID]string, len(order))
	if len(order) > 0 {
		rows, err := tx.Query(ctx, `SELECT id, name FROM exercises WHERE id = ANY($1)`, order)
		if err != nil {
			return nil, fmt.Errorf("querying exercise names: %w", err)
		}
		for rows.Next() {
			var id uuid.UUID
			var name string
			if err := rows.Scan(&id, &name); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning exercise name: %w", err)
			}
			names[id] = name
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("reading exercise names: %w", err)
		}
	}

	var results []LoggedPR
	for _, exID := range order {
		s := best[exID]

		var current *models.PersonalRecord
		row := tx.QueryRow(ctx,
			`SELECT id, user_id, exercise_id, weight_kg, reps, estimated_1rm, achieved_at, previous_weight, workout_log_id
			 FROM personal_records WHERE user_id = $1 AND exercise_id = $2 FOR UPDATE`,
			log.UserID, exID)
		var pr models.PersonalRecord
		err := row.Scan(&pr.ID, &pr.UserID, &pr.ExerciseID, &pr.WeightKg, &pr.Reps,
			&pr.Estimated1RM, &pr.AchievedAt, &pr.PreviousWeight, &pr.WorkoutLogID)
		switch {
		case err == nil:
			current = &pr
		case errors.Is(err, pgx.ErrNoRows):
			// first lift of this exercise
		default:
			return nil, fmt.Errorf("querying record: %w", err)
		}

		check := progress.EvaluatePR(current, s.WeightKg, s.Reps, repThreshold)
		results = append(results, LoggedPR{
			ExerciseID: exID, ExerciseName: names[exID],
			WeightKg: s.WeightKg, Reps: s.Reps, Check: check,
		})

		switch {
		case current == nil && check.Reason == "first_record":
			_, err = tx.Exec(ctx,
				`INSERT INTO personal_records (id, user_id, exercise_id, weight_kg, reps, estimated_1rm, achieved_at, workout_log_id)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				uuid.New(), log.UserID, exID, s.WeightKg, s.Reps, check.Estimated1RM, log.StartedAt, log.ID)
			if err != nil {
				return nil, fmt.Errorf("inserting baseline record: %w", err)
			}
		case check.IsPR:
			_, err = tx.Exec(ctx,
				`UPDATE personal_records
				 SET previous_weight = weight_kg, weight_kg = $3, reps = $4, estimated_1rm = $5,
				     achieved_at = $6, workout_log_id = $7
				 WHERE user_id = $1 AND exercise_id = $2`,
				log.UserID, exID, s.WeightKg, s.Reps, check.Estimated1RM, log.StartedAt, log.ID)
			if err != nil {
				return nil, fmt.Errorf("superseding record: %w", err)
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO pr_history (id, user_id, exercise_id, weight_kg, reps, estimated_1rm, achieved_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
				uuid.New(), log.UserID, exID, s.WeightKg, s.Reps, check.Estimated1RM, log.StartedAt)
			if err != nil {
				return nil, fmt.Errorf("appending record history: %w", err)
			}
		}
	}
	return results, nil
}

// ListWorkoutLogs retrieves a user's workout logs, newest first.
func (db *DB) ListWorkoutLogs(ctx context.Context, userID, limit int) ([]models.WorkoutLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, started_at, completed_at, notes
		 FROM workout_logs WHERE user_id = $1 ORDER BY started_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutLog
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name, &l.StartedAt, &l.CompletedAt, &l.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// GetWorkoutLog retrieves one log with its sets.
func (db *DB) GetWorkoutLog(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutLog, []models.WorkoutLogSet, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, started_at, completed_at, notes
		 FROM workout_logs WHERE id = $1 AND user_id = $2`, id, userID)
	var l models.WorkoutLog
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.StartedAt, &l.CompletedAt, &l.Notes); err != nil {
		return nil, nil, notFound(err, fmt.Sprintf("workout log %s", id))
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT ls.id, ls.workout_log_id, ls.exercise_id, e.name, ls.set_number, ls.weight_kg, ls.reps, ls.is_warmup
		 FROM workout_log_sets ls
		 JOIN exercises e ON e.id = ls.exercise_id
		 WHERE ls.workout_log_id = $1
		 ORDER BY ls.set_number`,
		id)
	if err != nil {
		return nil, nil, fmt.Errorf("querying log sets: %w", err)
	}
	defer rows.Close()

	var sets []models.WorkoutLogSet
	for rows.Next() {
		var s models.WorkoutLogSet
		if err := rows.Scan(&s.ID, &s.WorkoutLogID, &s.ExerciseID, &s.ExerciseName,
			&s.SetNumber, &s.WeightKg, &s.Reps, &s.IsWarmup); err != nil {
			return nil, nil, fmt.Errorf("scanning log set: %w", err)
		}
		sets = append(sets, s)
	}
	return &l, sets, rows.Err()
}
