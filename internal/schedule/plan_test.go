package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testCycle(lengthWeeks, daysPerWeek, rotationWeeks int) *models.Cycle {
	start := date(2024, time.January, 1) // a Monday
	return &models.Cycle{
		ID:            uuid.New(),
		UserID:        1,
		Name:          "Winter block",
		StartDate:     start,
		EndDate:       models.CycleEndDate(start, lengthWeeks),
		LengthWeeks:   lengthWeeks,
		DaysPerWeek:   daysPerWeek,
		SplitType:     models.SplitPPL,
		RotationWeeks: rotationWeeks,
		StartsHeavy:   true,
		Status:        models.CycleStatusActive,
	}
}

func testSlots(cycleID uuid.UUID, days ...int) []models.WorkoutSlot {
	slots := make([]models.WorkoutSlot, len(days))
	for i, d := range days {
		slots[i] = models.WorkoutSlot{
			ID:         uuid.New(),
			CycleID:    cycleID,
			DayOfWeek:  d,
			Name:       "Day",
			IsHeavy:    true,
			OrderIndex: i,
		}
	}
	return slots
}

// TestBuildScheduleDates verifies the canonical expansion: a 2-week,
// 3-day cycle starting Monday 2024-01-01 with Mon/Wed/Fri preferred days
// yields six rows on the expected dates with the expected week numbers.
func TestBuildScheduleDates(t *testing.T) {
	cycle := testCycle(2, 3, 1)
	slots := testSlots(cycle.ID, 0, 2, 4)
	preferred := []time.Weekday{time.Monday, time.Wednesday, time.Friday}

	planned, err := BuildSchedule(cycle, slots, nil, preferred)
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if len(planned) != 6 {
		t.Fatalf("planned = %d rows, want 6", len(planned))
	}

	want := []struct {
		d    time.Time
		week int
	}{
		{date(2024, time.January, 1), 1},
		{date(2024, time.January, 3), 1},
		{date(2024, time.January, 5), 1},
		{date(2024, time.January, 8), 2},
		{date(2024, time.January, 10), 2},
		{date(2024, time.January, 12), 2},
	}
	for i, p := range planned {
		if !p.Date.Equal(want[i].d) {
			t.Errorf("row %d date = %s, want %s", i, p.Date.Format("2006-01-02"), want[i].d.Format("2006-01-02"))
		}
		if p.WeekNumber != want[i].week {
			t.Errorf("row %d week = %d, want %d", i, p.WeekNumber, want[i].week)
		}
	}
}

// TestBuildSchedulePositionalMapping verifies that slot positions map onto
// the preferred weekdays by position, not literal weekday number: a
// Mon/Wed/Fri-shaped template trains Tue/Thu/Sat for a lifter who picked
// those days.
func TestBuildSchedulePositionalMapping(t *testing.T) {
	cycle := testCycle(1, 3, 1)
	slots := testSlots(cycle.ID, 0, 2, 4)
	preferred := []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}

	planned, err := BuildSchedule(cycle, slots, nil, preferred)
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}

	wantDates := []time.Time{
		date(2024, time.January, 2),
		date(2024, time.January, 4),
		date(2024, time.January, 6),
	}
	for i, p := range planned {
		if !p.Date.Equal(wantDates[i]) {
			t.Errorf("row %d date = %s, want %s", i, p.Date.Format("2006-01-02"), wantDates[i].Format("2006-01-02"))
		}
	}
}

// TestBuildScheduleBounds verifies the count property and that every date
// falls inside [start_date, end_date].
func TestBuildScheduleBounds(t *testing.T) {
	cycle := testCycle(6, 4, 1)
	slots := testSlots(cycle.ID, 0, 1, 2, 3)
	preferred := []time.Weekday{time.Monday, time.Tuesday, time.Thursday, time.Friday}

	planned, err := BuildSchedule(cycle, slots, nil, preferred)
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if want := cycle.LengthWeeks * len(slots); len(planned) != want {
		t.Fatalf("planned = %d rows, want %d", len(planned), want)
	}
	for _, p := range planned {
		if p.Date.Before(cycle.StartDate) || p.Date.After(cycle.EndDate) {
			t.Errorf("date %s outside [%s, %s]", p.Date.Format("2006-01-02"),
				cycle.StartDate.Format("2006-01-02"), cycle.EndDate.Format("2006-01-02"))
		}
	}
}

// TestBuildScheduleWeekdayMismatch verifies the preferred-weekday count must
// equal days_per_week, rejected before any planning happens.
func TestBuildScheduleWeekdayMismatch(t *testing.T) {
	cycle := testCycle(2, 3, 1)
	slots := testSlots(cycle.ID, 0, 2, 4)

	_, err := BuildSchedule(cycle, slots, nil, []time.Weekday{time.Monday, time.Friday})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

// TestHeavyLightParity verifies the rotation-period-1 tie-break: a cycle
// starting heavy resolves the same slot heavy in odd weeks and light in even
// weeks, frozen into the prescriptions.
func TestHeavyLightParity(t *testing.T) {
	cycle := testCycle(3, 1, 1)
	slots := testSlots(cycle.ID, 0)
	exercises := []models.SlotExercise{{
		ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID,
		ExerciseID: uuid.New(), ExerciseName: "Bench Press", IsHeavy: true,
		SetsHeavy: 4, SetsLight: 3, RepRangeHeavy: "6-8", RepRangeLight: "10-12",
		RestHeavy: 180, RestLight: 90,
	}}

	planned, err := BuildSchedule(cycle, slots, exercises, []time.Weekday{time.Monday})
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if len(planned) != 3 {
		t.Fatalf("planned = %d rows, want 3", len(planned))
	}

	wantHeavy := []bool{true, false, true}
	for i, p := range planned {
		if len(p.Exercises) != 1 {
			t.Fatalf("week %d: %d exercises, want 1", i+1, len(p.Exercises))
		}
		ex := p.Exercises[0]
		if ex.IsHeavy != wantHeavy[i] {
			t.Errorf("week %d heavy = %v, want %v", i+1, ex.IsHeavy, wantHeavy[i])
		}
		if wantHeavy[i] && (ex.Sets != 4 || ex.RepRange != "6-8" || ex.RestSeconds != 180) {
			t.Errorf("week %d heavy prescription = %d×%s/%ds", i+1, ex.Sets, ex.RepRange, ex.RestSeconds)
		}
		if !wantHeavy[i] && (ex.Sets != 3 || ex.RepRange != "10-12" || ex.RestSeconds != 90) {
			t.Errorf("week %d light prescription = %d×%s/%ds", i+1, ex.Sets, ex.RepRange, ex.RestSeconds)
		}
	}
}

// TestWeekSpecificOverride verifies that a week-3-only prescription replaces
// the defaults for week 3 and leaves the other weeks untouched.
func TestWeekSpecificOverride(t *testing.T) {
	cycle := testCycle(4, 1, 2) // rotation 2 so template designations hold
	slots := testSlots(cycle.ID, 0)
	week3 := 3
	exercises := []models.SlotExercise{
		{
			ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID,
			ExerciseID: uuid.New(), ExerciseName: "Squat", IsHeavy: true,
			SetsHeavy: 5, RepRangeHeavy: "5", RestHeavy: 240,
		},
		{
			ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID,
			ExerciseID: uuid.New(), ExerciseName: "Squat", IsHeavy: true,
			SetsHeavy: 2, RepRangeHeavy: "5", RestHeavy: 240,
			WeekNumber: &week3, // deload
		},
	}

	planned, err := BuildSchedule(cycle, slots, exercises, []time.Weekday{time.Monday})
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	for _, p := range planned {
		wantSets := 5
		if p.WeekNumber == 3 {
			wantSets = 2
		}
		if len(p.Exercises) != 1 || p.Exercises[0].Sets != wantSets {
			t.Errorf("week %d sets = %d, want %d", p.WeekNumber, p.Exercises[0].Sets, wantSets)
		}
	}
}

// TestRotationFiltering verifies that week_pattern-tagged slots only appear
// in matching weeks of a 2-week rotation.
func TestRotationFiltering(t *testing.T) {
	cycle := testCycle(4, 2, 2)
	odd, even := PatternOdd, PatternEven
	slots := []models.WorkoutSlot{
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 0, Name: "Upper A", WeekPattern: &odd},
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 1, Name: "Lower A", WeekPattern: &odd},
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 0, Name: "Lower B", WeekPattern: &even},
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 1, Name: "Upper B", WeekPattern: &even},
	}

	planned, err := BuildSchedule(cycle, slots, nil, []time.Weekday{time.Monday, time.Thursday})
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if len(planned) != 8 {
		t.Fatalf("planned = %d rows, want 8", len(planned))
	}
	for _, p := range planned {
		wantPattern := PatternOdd
		if p.WeekNumber%2 == 0 {
			wantPattern = PatternEven
		}
		if *p.Slot.WeekPattern != wantPattern {
			t.Errorf("week %d got slot %q (pattern %s), want pattern %s",
				p.WeekNumber, p.Slot.Name, *p.Slot.WeekPattern, wantPattern)
		}
	}
}

// TestTaggedSlotNonRotatingCycle verifies that a week_pattern tag on a slot
// is ignored when the cycle does not rotate. Without this a stray "odd" tag
// in a rotation-1 cycle would silently drop the slot from every week.
func TestTaggedSlotNonRotatingCycle(t *testing.T) {
	cycle := testCycle(2, 2, 1)
	odd := PatternOdd
	slots := []models.WorkoutSlot{
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 0, Name: "Push"},
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 2, Name: "Pull", WeekPattern: &odd, OrderIndex: 1},
	}

	planned, err := BuildSchedule(cycle, slots, nil, []time.Weekday{time.Monday, time.Wednesday})
	if err != nil {
		t.Fatalf("BuildSchedule: %v", err)
	}
	if len(planned) != 4 {
		t.Fatalf("planned = %d rows, want 4 (both slots in both weeks)", len(planned))
	}
	tagged := 0
	for _, p := range planned {
		if p.Slot.Name == "Pull" {
			tagged++
		}
	}
	if tagged != 2 {
		t.Errorf("tagged slot scheduled %d times, want 2", tagged)
	}
}

func TestPatternForWeek(t *testing.T) {
	tests := []struct {
		week, rotation int
		want           string
	}{
		{1, 1, ""},
		{5, 1, ""},
		{1, 2, "odd"},
		{2, 2, "even"},
		{3, 2, "odd"},
		{1, 3, "week_mod_1"},
		{2, 3, "week_mod_2"},
		{3, 3, "week_mod_0"},
		{4, 3, "week_mod_1"},
	}
	for _, tt := range tests {
		if got := PatternForWeek(tt.week, tt.rotation); got != tt.want {
			t.Errorf("PatternForWeek(%d, %d) = %q, want %q", tt.week, tt.rotation, got, tt.want)
		}
	}
}

func TestWeekNumberFor(t *testing.T) {
	start := date(2024, time.January, 1)
	tests := []struct {
		d    time.Time
		want int
	}{
		{date(2024, time.January, 1), 1},
		{date(2024, time.January, 7), 1},
		{date(2024, time.January, 8), 2},
		{date(2024, time.January, 14), 2},
		{date(2024, time.January, 15), 3},
	}
	for _, tt := range tests {
		if got := WeekNumberFor(start, tt.d); got != tt.want {
			t.Errorf("WeekNumberFor(%s) = %d, want %d", tt.d.Format("2006-01-02"), got, tt.want)
		}
	}
}

// TestPrescriptionsForWeek verifies week filtering plus heavy/light
// resolution without going through a full BuildSchedule.
func TestPrescriptionsForWeek(t *testing.T) {
	cycle := testCycle(4, 2, 2)
	odd, even := PatternOdd, PatternEven
	slots := []models.WorkoutSlot{
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 0, Name: "Upper A", WeekPattern: &odd},
		{ID: uuid.New(), CycleID: cycle.ID, DayOfWeek: 0, Name: "Upper B", WeekPattern: &even},
	}
	exercises := []models.SlotExercise{
		{
			ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[0].ID,
			ExerciseID: uuid.New(), ExerciseName: "Bench", IsHeavy: true,
			SetsHeavy: 5, RepRangeHeavy: "4-6", RestHeavy: 180,
		},
		{
			ID: uuid.New(), CycleID: cycle.ID, SlotID: slots[1].ID,
			ExerciseID: uuid.New(), ExerciseName: "Bench", IsHeavy: false,
			SetsLight: 3, RepRangeLight: "10-15", RestLight: 90,
		},
	}

	week1 := PrescriptionsForWeek(cycle, slots, exercises, 1)
	if len(week1) != 1 || !week1[0].IsHeavy || week1[0].RepRange != "4-6" {
		t.Errorf("week 1 = %+v, want one heavy 4-6 prescription", week1)
	}
	week2 := PrescriptionsForWeek(cycle, slots, exercises, 2)
	if len(week2) != 1 || week2[0].IsHeavy || week2[0].RepRange != "10-15" {
		t.Errorf("week 2 = %+v, want one light 10-15 prescription", week2)
	}
}
