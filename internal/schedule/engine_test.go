package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// fakeStore is an in-memory Store that mirrors the database constraints:
// uniqueness on (cycle, slot, week) for idempotent materialization, and the
// partial uniqueness on (user, date) for non-skipped, non-missed rows.
type fakeStore struct {
	cycles    map[uuid.UUID]*models.Cycle
	slots     map[uuid.UUID][]models.WorkoutSlot
	exercises map[uuid.UUID][]models.SlotExercise
	scheduled map[uuid.UUID]*models.ScheduledWorkout
	frozen    map[uuid.UUID][]models.ScheduledExercise
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cycles:    make(map[uuid.UUID]*models.Cycle),
		slots:     make(map[uuid.UUID][]models.WorkoutSlot),
		exercises: make(map[uuid.UUID][]models.SlotExercise),
		scheduled: make(map[uuid.UUID]*models.ScheduledWorkout),
		frozen:    make(map[uuid.UUID][]models.ScheduledExercise),
	}
}

func (f *fakeStore) GetCycle(_ context.Context, id uuid.UUID) (*models.Cycle, error) {
	c, ok := f.cycles[id]
	if !ok {
		return nil, fmt.Errorf("cycle %s: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) SlotsForCycle(_ context.Context, cycleID uuid.UUID) ([]models.WorkoutSlot, error) {
	return f.slots[cycleID], nil
}

func (f *fakeStore) SlotExercisesForCycle(_ context.Context, cycleID uuid.UUID) ([]models.SlotExercise, error) {
	return f.exercises[cycleID], nil
}

func (f *fakeStore) InsertSchedule(_ context.Context, rows []models.ScheduledWorkout, exercises [][]models.ScheduledExercise) (int, error) {
	inserted := 0
	for i, row := range rows {
		if f.exists(row.CycleID, row.SlotID, row.WeekNumber) {
			continue
		}
		cp := row
		f.scheduled[row.ID] = &cp
		f.frozen[row.ID] = exercises[i]
		inserted++
	}
	return inserted, nil
}

func (f *fakeStore) exists(cycleID, slotID uuid.UUID, week int) bool {
	for _, sw := range f.scheduled {
		if sw.CycleID == cycleID && sw.SlotID == slotID && sw.WeekNumber == week {
			return true
		}
	}
	return false
}

func (f *fakeStore) GetScheduledWorkout(_ context.Context, id uuid.UUID) (*models.ScheduledWorkout, error) {
	sw, ok := f.scheduled[id]
	if !ok {
		return nil, fmt.Errorf("scheduled workout %s: %w", id, ErrNotFound)
	}
	cp := *sw
	return &cp, nil
}

func (f *fakeStore) MoveScheduledWorkout(_ context.Context, id uuid.UUID, date time.Time, week int, exercises []models.ScheduledExercise) error {
	sw, ok := f.scheduled[id]
	if !ok {
		return fmt.Errorf("scheduled workout %s: %w", id, ErrNotFound)
	}
	for _, other := range f.scheduled {
		if other.ID == id || other.UserID != sw.UserID || !other.ScheduledDate.Equal(date) {
			continue
		}
		if other.Status != models.ScheduledStatusSkipped && other.Status != models.ScheduledStatusMissed {
			return fmt.Errorf("date %s: %w", date.Format("2006-01-02"), ErrScheduleConflict)
		}
	}
	sw.ScheduledDate = date
	sw.WeekNumber = week
	f.frozen[id] = exercises
	return nil
}

func (f *fakeStore) SetScheduledStatus(_ context.Context, id uuid.UUID, status string) error {
	sw, ok := f.scheduled[id]
	if !ok {
		return fmt.Errorf("scheduled workout %s: %w", id, ErrNotFound)
	}
	sw.Status = status
	return nil
}

func (f *fakeStore) LinkWorkoutLog(_ context.Context, id, logID uuid.UUID) error {
	sw, ok := f.scheduled[id]
	if !ok {
		return fmt.Errorf("scheduled workout %s: %w", id, ErrNotFound)
	}
	sw.Status = models.ScheduledStatusCompleted
	sw.WorkoutLogID = &logID
	return nil
}

func (f *fakeStore) MarkMissedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, sw := range f.scheduled {
		if sw.Status == models.ScheduledStatusScheduled && sw.ScheduledDate.Before(cutoff) {
			sw.Status = models.ScheduledStatusMissed
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) addCycle(c *models.Cycle, slots []models.WorkoutSlot, exercises []models.SlotExercise) {
	f.cycles[c.ID] = c
	f.slots[c.ID] = slots
	f.exercises[c.ID] = exercises
}

func (f *fakeStore) byWeekAndSlot(cycleID, slotID uuid.UUID, week int) *models.ScheduledWorkout {
	for _, sw := range f.scheduled {
		if sw.CycleID == cycleID && sw.SlotID == slotID && sw.WeekNumber == week {
			return sw
		}
	}
	return nil
}

var mwf = []time.Weekday{time.Monday, time.Wednesday, time.Friday}

// TestMaterializeIdempotent verifies that running materialize twice produces
// no duplicate rows: existing (cycle, slot, week) rows are detected and
// skipped.
func TestMaterializeIdempotent(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(2, 3, 1)
	store.addCycle(cycle, testSlots(cycle.ID, 0, 1, 2), nil)
	eng := NewEngine(store, nil, nil)

	n, err := eng.Materialize(context.Background(), cycle.ID, mwf)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if n != 6 {
		t.Fatalf("inserted = %d, want 6", n)
	}

	n, err = eng.Materialize(context.Background(), cycle.ID, mwf)
	if err != nil {
		t.Fatalf("second materialize: %v", err)
	}
	if n != 0 {
		t.Errorf("second materialize inserted = %d, want 0", n)
	}
	if len(store.scheduled) != 6 {
		t.Errorf("total rows = %d, want 6", len(store.scheduled))
	}
}

// TestMaterializeBadWeekdays verifies the count mismatch is rejected with
// ErrConfiguration before anything is written.
func TestMaterializeBadWeekdays(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(2, 3, 1)
	store.addCycle(cycle, testSlots(cycle.ID, 0, 1, 2), nil)
	eng := NewEngine(store, nil, nil)

	_, err := eng.Materialize(context.Background(), cycle.ID, []time.Weekday{time.Monday})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if len(store.scheduled) != 0 {
		t.Errorf("rows written = %d, want 0", len(store.scheduled))
	}
}

// TestRescheduleAcrossWeekBoundary verifies that moving a workout into an
// adjacent week recomputes week_number and re-resolves the prescriptions,
// picking up a week-2-only override.
func TestRescheduleAcrossWeekBoundary(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(2, 1, 2)
	slots := testSlots(cycle.ID, 0)
	week2 := 2
	exercises := []models.SlotExercise{
		{ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID, ExerciseID: uuid.New(),
			ExerciseName: "Deadlift", IsHeavy: true, SetsHeavy: 4, RepRangeHeavy: "5", RestHeavy: 240},
		{ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID, ExerciseID: uuid.New(),
			ExerciseName: "Deadlift", IsHeavy: true, SetsHeavy: 1, RepRangeHeavy: "5", RestHeavy: 240,
			WeekNumber: &week2},
	}
	store.addCycle(cycle, slots, exercises)
	eng := NewEngine(store, nil, nil)

	if _, err := eng.Materialize(context.Background(), cycle.ID, []time.Weekday{time.Monday}); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	sw := store.byWeekAndSlot(cycle.ID, slots[0].ID, 1)
	if sw == nil {
		t.Fatal("week 1 instance not found")
	}
	if got := store.frozen[sw.ID][0].Sets; got != 4 {
		t.Fatalf("week 1 sets = %d, want 4", got)
	}

	// Monday of week 1 → Tuesday of week 2.
	moved, err := eng.Reschedule(context.Background(), sw.ID, date(2024, time.January, 9))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.WeekNumber != 2 {
		t.Errorf("week = %d, want 2", moved.WeekNumber)
	}
	if got := store.frozen[sw.ID][0].Sets; got != 1 {
		t.Errorf("sets after move = %d, want 1 (week-2 override)", got)
	}
}

// TestRescheduleConflict verifies that moving onto a date already holding a
// non-skipped workout for the same user fails with ErrScheduleConflict.
func TestRescheduleConflict(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(1, 2, 1)
	slots := testSlots(cycle.ID, 0, 1)
	store.addCycle(cycle, slots, nil)
	eng := NewEngine(store, nil, nil)

	if _, err := eng.Materialize(context.Background(), cycle.ID, []time.Weekday{time.Monday, time.Thursday}); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	first := store.byWeekAndSlot(cycle.ID, slots[0].ID, 1)
	_, err := eng.Reschedule(context.Background(), first.ID, date(2024, time.January, 4))
	if !errors.Is(err, ErrScheduleConflict) {
		t.Fatalf("err = %v, want ErrScheduleConflict", err)
	}

	// Skipping the blocker frees the date.
	second := store.byWeekAndSlot(cycle.ID, slots[1].ID, 1)
	if _, err := eng.Skip(context.Background(), second.ID); err != nil {
		t.Fatalf("skip: %v", err)
	}
	if _, err := eng.Reschedule(context.Background(), first.ID, date(2024, time.January, 4)); err != nil {
		t.Fatalf("reschedule after skip: %v", err)
	}
}

// TestRescheduleOutOfBounds verifies dates outside the cycle window are
// rejected with ErrConfiguration.
func TestRescheduleOutOfBounds(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(1, 1, 1)
	slots := testSlots(cycle.ID, 0)
	store.addCycle(cycle, slots, nil)
	eng := NewEngine(store, nil, nil)

	if _, err := eng.Materialize(context.Background(), cycle.ID, []time.Weekday{time.Monday}); err != nil {
		t.Fatalf("materialize: %v", err)
	}
	sw := store.byWeekAndSlot(cycle.ID, slots[0].ID, 1)

	_, err := eng.Reschedule(context.Background(), sw.ID, date(2024, time.February, 1))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

// TestSkipIdempotentAndGuarded verifies skip is a no-op on skipped rows and
// rejected with ErrInvalidTransition on completed ones.
func TestSkipIdempotentAndGuarded(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(1, 2, 1)
	slots := testSlots(cycle.ID, 0, 1)
	store.addCycle(cycle, slots, nil)
	eng := NewEngine(store, nil, nil)

	if _, err := eng.Materialize(context.Background(), cycle.ID, []time.Weekday{time.Monday, time.Thursday}); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	first := store.byWeekAndSlot(cycle.ID, slots[0].ID, 1)
	if _, err := eng.Skip(context.Background(), first.ID); err != nil {
		t.Fatalf("skip: %v", err)
	}
	sw, err := eng.Skip(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("second skip: %v", err)
	}
	if sw.Status != models.ScheduledStatusSkipped {
		t.Errorf("status = %s, want skipped", sw.Status)
	}

	second := store.byWeekAndSlot(cycle.ID, slots[1].ID, 1)
	if _, err := eng.Complete(context.Background(), second.ID, uuid.New()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := eng.Skip(context.Background(), second.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("skip completed: err = %v, want ErrInvalidTransition", err)
	}
	if got := store.scheduled[second.ID].Status; got != models.ScheduledStatusCompleted {
		t.Errorf("status after rejected skip = %s, want completed", got)
	}
}

// TestMarkMissedSweep verifies the sweep only touches scheduled rows whose
// date has passed, leaving completed and skipped rows alone, and is
// idempotent.
func TestMarkMissedSweep(t *testing.T) {
	store := newFakeStore()
	cycle := testCycle(1, 3, 1)
	slots := testSlots(cycle.ID, 0, 1, 2)
	store.addCycle(cycle, slots, nil)
	eng := NewEngine(store, nil, nil)

	if _, err := eng.Materialize(context.Background(), cycle.ID, mwf); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	mon := store.byWeekAndSlot(cycle.ID, slots[0].ID, 1) // Jan 1
	wed := store.byWeekAndSlot(cycle.ID, slots[1].ID, 1) // Jan 3
	fri := store.byWeekAndSlot(cycle.ID, slots[2].ID, 1) // Jan 5

	if _, err := eng.Complete(context.Background(), mon.ID, uuid.New()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := eng.Skip(context.Background(), wed.ID); err != nil {
		t.Fatalf("skip: %v", err)
	}

	n, err := eng.MarkMissed(context.Background(), date(2024, time.January, 6))
	if err != nil {
		t.Fatalf("markMissed: %v", err)
	}
	if n != 1 {
		t.Errorf("marked = %d, want 1", n)
	}
	if got := store.scheduled[mon.ID].Status; got != models.ScheduledStatusCompleted {
		t.Errorf("completed row became %s", got)
	}
	if got := store.scheduled[wed.ID].Status; got != models.ScheduledStatusSkipped {
		t.Errorf("skipped row became %s", got)
	}
	if got := store.scheduled[fri.ID].Status; got != models.ScheduledStatusMissed {
		t.Errorf("friday row = %s, want missed", got)
	}

	// Re-running the sweep is a no-op.
	n, err = eng.MarkMissed(context.Background(), date(2024, time.January, 6))
	if err != nil {
		t.Fatalf("second markMissed: %v", err)
	}
	if n != 0 {
		t.Errorf("second sweep marked = %d, want 0", n)
	}
}
