package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// UpsertSuggestion stores a weight suggestion, replacing any previous one for
// the same (cycle, exercise, week, intensity).
func (db *DB) UpsertSuggestion(ctx context.Context, s models.WeightSuggestion) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO weight_suggestions (id, user_id, cycle_id, exercise_id, week_number, is_heavy, suggested_weight, based_on_log_id)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (cycle_id, exercise_id, week_number, is_heavy) DO UPDATE
		 SET suggested_weight = $7, based_on_log_id = $8, created_at = NOW()`,
		s.ID, s.UserID, s.CycleID, s.ExerciseID, s.WeekNumber, s.IsHeavy, s.SuggestedWeight, s.BasedOnLogID)
	if err != nil {
		return fmt.Errorf("upserting suggestion: %w", err)
	}
	return nil
}

// SuggestionsForWeek retrieves a user's suggestions for one week of a cycle.
func (db *DB) SuggestionsForWeek(ctx context.Context, userID int, cycleID uuid.UUID, week int) ([]models.WeightSuggestion, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, cycle_id, exercise_id, week_number, is_heavy, suggested_weight, based_on_log_id, created_at
		 FROM weight_suggestions
		 WHERE user_id = $1 AND cycle_id = $2 AND week_number = $3
		 ORDER BY exercise_id, is_heavy DESC`,
		userID, cycleID, week)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer rows.Close()

	var result []models.WeightSuggestion
	for rows.Next() {
		var s models.WeightSuggestion
		if err := rows.Scan(&s.ID, &s.UserID, &s.CycleID, &s.ExerciseID, &s.WeekNumber,
			&s.IsHeavy, &s.SuggestedWeight, &s.BasedOnLogID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// LastWorkingWeight returns the heaviest non-warmup weight the user lifted
// for an exercise in their most recent log containing it, with the reps
// achieved at that weight. Feeds the progression rule.
func (db *DB) LastWorkingWeight(ctx context.Context, userID int, exerciseID uuid.UUID) (weight float64, reps int, logID *uuid.UUID, err error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ls.weight_kg, ls.reps, ls.workout_log_id
		 FROM workout_log_sets ls
		 JOIN workout_logs l ON l.id = ls.workout_log_id
		 WHERE l.user_id = $1 AND ls.exercise_id = $2 AND NOT ls.is_warmup
		 ORDER BY l.started_at DESC, ls.weight_kg DESC
		 LIMIT 1`,
		userID, exerciseID)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("querying last weight: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return 0, 0, nil, rows.Err()
	}
	var id uuid.UUID
	if err := rows.Scan(&weight, &reps, &id); err != nil {
		return 0, 0, nil, fmt.Errorf("scanning last weight: %w", err)
	}
	return weight, reps, &id, rows.Err()
}
