package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// ListPersonalRecords retrieves a user's current records, strongest first.
func (db *DB) ListPersonalRecords(ctx context.Context, userID int) ([]models.PersonalRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT pr.id, pr.user_id, pr.exercise_id, e.name, pr.weight_kg, pr.reps,
		 pr.estimated_1rm, pr.achieved_at, pr.previous_weight, pr.workout_log_id
		 FROM personal_records pr
		 JOIN exercises e ON e.id = pr.exercise_id
		 WHERE pr.user_id = $1
		 ORDER BY pr.estimated_1rm DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var result []models.PersonalRecord
	for rows.Next() {
		var pr models.PersonalRecord
		if err := rows.Scan(&pr.ID, &pr.UserID, &pr.ExerciseID, &pr.ExerciseName, &pr.WeightKg, &pr.Reps,
			&pr.Estimated1RM, &pr.AchievedAt, &pr.PreviousWeight, &pr.WorkoutLogID); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		result = append(result, pr)
	}
	return result, rows.Err()
}

// GetPersonalRecord retrieves the current record for one exercise, or nil if
// the user has never lifted it.
func (db *DB) GetPersonalRecord(ctx context.Context, userID int, exerciseID uuid.UUID) (*models.PersonalRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT pr.id, pr.user_id, pr.exercise_id, e.name, pr.weight_kg, pr.reps,
		 pr.estimated_1rm, pr.achieved_at, pr.previous_weight, pr.workout_log_id
		 FROM personal_records pr
		 JOIN exercises e ON e.id = pr.exercise_id
		 WHERE pr.user_id = $1 AND pr.exercise_id = $2`,
		userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var pr models.PersonalRecord
	if err := rows.Scan(&pr.ID, &pr.UserID, &pr.ExerciseID, &pr.ExerciseName, &pr.WeightKg, &pr.Reps,
		&pr.Estimated1RM, &pr.AchievedAt, &pr.PreviousWeight, &pr.WorkoutLogID); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return &pr, rows.Err()
}

// PRHistory retrieves the append-only record ledger for one exercise,
// oldest first so clients can chart the progression.
func (db *DB) PRHistory(ctx context.Context, userID int, exerciseID uuid.UUID) ([]models.PRHistoryEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT h.id, h.user_id, h.exercise_id, e.name, h.weight_kg, h.reps, h.estimated_1rm, h.achieved_at
		 FROM pr_history h
		 JOIN exercises e ON e.id = h.exercise_id
		 WHERE h.user_id = $1 AND h.exercise_id = $2
		 ORDER BY h.achieved_at`,
		userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying record history: %w", err)
	}
	defer rows.Close()

	var result []models.PRHistoryEntry
	for rows.Next() {
		var h models.PRHistoryEntry
		if err := rows.Scan(&h.ID, &h.UserID, &h.ExerciseID, &h.ExerciseName,
			&h.WeightKg, &h.Reps, &h.Estimated1RM, &h.AchievedAt); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}
