package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

const exerciseColumns = `id, name, muscle_group, equipment, is_compound, form_cues`

// ListExercises retrieves the catalog, optionally filtered by muscle group.
func (db *DB) ListExercises(ctx context.Context, muscleGroup string) ([]models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises`
	args := []any{}
	if muscleGroup != "" {
		query += ` WHERE muscle_group = $1`
		args = append(args, muscleGroup)
	}
	query += ` ORDER BY muscle_group, name`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCompound, &e.FormCues); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise retrieves one catalog entry.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	var e models.Exercise
	if err := row.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCompound, &e.FormCues); err != nil {
		return nil, notFound(err, fmt.Sprintf("exercise %s", id))
	}
	return &e, nil
}

// GetExerciseByName retrieves a catalog entry by its exact name. Used by the
// offline-upload ingest path, where logs reference exercises by name.
func (db *DB) GetExerciseByName(ctx context.Context, name string) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE name = $1`, name)
	var e models.Exercise
	if err := row.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCompound, &e.FormCues); err != nil {
		return nil, notFound(err, fmt.Sprintf("exercise %q", name))
	}
	return &e, nil
}

// Substitutes finds replacement candidates for an exercise: same muscle
// group, with matching equipment and compound-ness ranked first.
func (db *DB) Substitutes(ctx context.Context, exerciseID uuid.UUID, limit int) ([]models.Exercise, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.name, s.muscle_group, s.equipment, s.is_compound, s.form_cues
		 FROM exercises e
		 JOIN exercises s ON s.muscle_group = e.muscle_group AND s.id <> e.id
		 WHERE e.id = $1
		 ORDER BY (s.equipment = e.equipment) DESC, (s.is_compound = e.is_compound) DESC, s.name
		 LIMIT $2`,
		exerciseID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying substitutes: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCompound, &e.FormCues); err != nil {
			return nil, fmt.Errorf("scanning substitute: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// UpsertExercise inserts or refreshes a catalog entry by name. Used by the
// seed binary; idempotent across runs.
func (db *DB) UpsertExercise(ctx context.Context, e models.Exercise) (uuid.UUID, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	var id uuid.UUID
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, name, muscle_group, equipment, is_compound, form_cues)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (name) DO UPDATE
		 SET muscle_group = $3, equipment = $4, is_compound = $5, form_cues = $6
		 RETURNING id`,
		e.ID, e.Name, e.MuscleGroup, e.Equipment, e.IsCompound, e.FormCues).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upserting exercise: %w", err)
	}
	return id, nil
}
