package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// TestBestWorkingSets verifies the per-exercise best-set selection feeding
// the PR check: warmups and zero-weight sets never count, the strongest set
// wins by estimated 1RM, and exercises keep their order of first appearance.
func TestBestWorkingSets(t *testing.T) {
	bench := uuid.New()
	squat := uuid.New()
	sets := []models.WorkoutLogSet{
		{ExerciseID: bench, WeightKg: 60, Reps: 10, IsWarmup: true},
		{ExerciseID: bench, WeightKg: 100, Reps: 5},
		{ExerciseID: bench, WeightKg: 90, Reps: 10}, // higher e1RM than 100x5
		{ExerciseID: squat, WeightKg: 140, Reps: 3},
		{ExerciseID: squat, WeightKg: 0, Reps: 5},
	}

	best, order := bestWorkingSets(sets)

	if len(order) != 2 || order[0] != bench || order[1] != squat {
		t.Fatalf("order = %v, want [bench, squat]", order)
	}
	if got := best[bench]; got.WeightKg != 90 || got.Reps != 10 {
		t.Errorf("bench best = %.0fx%d, want 90x10", got.WeightKg, got.Reps)
	}
	if got := best[squat]; got.WeightKg != 140 || got.Reps != 3 {
		t.Errorf("squat best = %.0fx%d, want 140x3", got.WeightKg, got.Reps)
	}
}

// TestBestWorkingSetsAllWarmups verifies a log of only warmups yields no
// candidates at all.
func TestBestWorkingSetsAllWarmups(t *testing.T) {
	ex := uuid.New()
	sets := []models.WorkoutLogSet{
		{ExerciseID: ex, WeightKg: 40, Reps: 12, IsWarmup: true},
		{ExerciseID: ex, WeightKg: 60, Reps: 8, IsWarmup: true},
	}
	best, order := bestWorkingSets(sets)
	if len(best) != 0 || len(order) != 0 {
		t.Errorf("best = %v, order = %v, want empty", best, order)
	}
}
