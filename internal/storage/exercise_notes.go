package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// MaxNoteLength caps per-exercise notes. Longer input is truncated, not
// rejected.
const MaxNoteLength = 500

// NormalizeNote trims and truncates note text. An empty result means the
// note should be removed rather than stored.
func NormalizeNote(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > MaxNoteLength {
		runes = runes[:MaxNoteLength]
	}
	return string(runes)
}

// SaveExerciseNote upserts a user's note for an exercise. The text must
// already be normalized and non-empty; callers delete instead of saving
// empty notes.
func (db *DB) SaveExerciseNote(ctx context.Context, userID int, exerciseID uuid.UUID, text string) (*models.ExerciseNote, error) {
	var n models.ExerciseNote
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO user_exercise_notes (user_id, exercise_id, note, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, exercise_id) DO UPDATE SET note = $3, updated_at = now()
		 RETURNING user_id, exercise_id, note, updated_at`,
		userID, exerciseID, text).Scan(&n.UserID, &n.ExerciseID, &n.Note, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving exercise note: %w", err)
	}
	return &n, nil
}

// GetExerciseNote retrieves a user's note for an exercise.
func (db *DB) GetExerciseNote(ctx context.Context, userID int, exerciseID uuid.UUID) (*models.ExerciseNote, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, exercise_id, note, updated_at
		 FROM user_exercise_notes WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID)
	var n models.ExerciseNote
	if err := row.Scan(&n.UserID, &n.ExerciseID, &n.Note, &n.UpdatedAt); err != nil {
		return nil, notFound(err, fmt.Sprintf("note for exercise %s", exerciseID))
	}
	return &n, nil
}

// DeleteExerciseNote removes a user's note for an exercise. Deleting a note
// that does not exist is not an error.
func (db *DB) DeleteExerciseNote(ctx context.Context, userID int, exerciseID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM user_exercise_notes WHERE user_id = $1 AND exercise_id = $2`,
		userID, exerciseID)
	if err != nil {
		return fmt.Errorf("deleting exercise note: %w", err)
	}
	return nil
}
