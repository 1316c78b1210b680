package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/meltforce/repcycle/internal/models"
)

// PlannedWorkout is one materialized (week, slot) instance before it is
// persisted. Exercises carry the frozen effective prescriptions.
type PlannedWorkout struct {
	Slot       models.WorkoutSlot
	WeekNumber int
	Date       time.Time
	Exercises  []models.ScheduledExercise
}

// BuildSchedule expands a cycle's recurring slot pattern into dated workout
// instances across the cycle's full length. Slot positions map onto the
// ordered preferred-weekday list by position (slot 0 trains on the first
// preferred weekday, slot 1 on the second), so a Mon/Wed/Fri template works
// unchanged for a Tue/Thu/Sat lifter.
//
// Pure: no I/O, deterministic for a given input.
func BuildSchedule(cycle *models.Cycle, slots []models.WorkoutSlot, exercises []models.SlotExercise, preferred []time.Weekday) ([]PlannedWorkout, error) {
	if len(preferred) != cycle.DaysPerWeek {
		return nil, fmt.Errorf("%w: %d preferred weekdays for %d training days per week",
			ErrConfiguration, len(preferred), cycle.DaysPerWeek)
	}
	if cycle.LengthWeeks < 1 {
		return nil, fmt.Errorf("%w: cycle length %d weeks", ErrConfiguration, cycle.LengthWeeks)
	}

	startWeekday := cycle.StartDate.Weekday()

	var planned []PlannedWorkout
	for week := 1; week <= cycle.LengthWeeks; week++ {
		pattern := PatternForWeek(week, cycle.RotationWeeks)

		weekSlots := make([]models.WorkoutSlot, 0, len(slots))
		for _, slot := range slots {
			if slotApplies(slot, pattern) {
				weekSlots = append(weekSlots, slot)
			}
		}
		sort.Slice(weekSlots, func(i, j int) bool {
			if weekSlots[i].DayOfWeek != weekSlots[j].DayOfWeek {
				return weekSlots[i].DayOfWeek < weekSlots[j].DayOfWeek
			}
			return weekSlots[i].OrderIndex < weekSlots[j].OrderIndex
		})
		if len(weekSlots) > len(preferred) {
			return nil, fmt.Errorf("%w: week %d has %d slots but only %d preferred weekdays",
				ErrConfiguration, week, len(weekSlots), len(preferred))
		}

		for pos, slot := range weekSlots {
			offset := (int(preferred[pos]) - int(startWeekday) + 7) % 7
			date := cycle.StartDate.AddDate(0, 0, (week-1)*7+offset)

			planned = append(planned, PlannedWorkout{
				Slot:       slot,
				WeekNumber: week,
				Date:       date,
				Exercises:  freezeExercises(cycle, slot, exercises, week),
			})
		}
	}
	return planned, nil
}

// freezeExercises resolves the effective prescriptions for one slot in one
// week: week-specific overrides first, then heavy/light for the week.
func freezeExercises(cycle *models.Cycle, slot models.WorkoutSlot, all []models.SlotExercise, week int) []models.ScheduledExercise {
	effective := EffectiveExercises(all, slot.ID, week)
	frozen := make([]models.ScheduledExercise, 0, len(effective))
	for _, ex := range effective {
		frozen = append(frozen, prescription(ex, heavyInWeek(cycle, ex.IsHeavy, week)))
	}
	return frozen
}

// PrescriptionsForWeek resolves the frozen prescriptions across every slot
// that participates in a given week, in slot order. Used by the weight
// suggestion generator, which needs the effective heavy/light designation
// and rep ranges without materializing anything.
func PrescriptionsForWeek(cycle *models.Cycle, slots []models.WorkoutSlot, exercises []models.SlotExercise, week int) []models.ScheduledExercise {
	pattern := PatternForWeek(week, cycle.RotationWeeks)
	var out []models.ScheduledExercise
	for _, slot := range slots {
		if slotApplies(slot, pattern) {
			out = append(out, freezeExercises(cycle, slot, exercises, week)...)
		}
	}
	return out
}

// WeekNumberFor computes the 1-based week-within-cycle for a date. Used when
// a reschedule shifts a workout across a week boundary, which changes which
// week-specific override applies.
func WeekNumberFor(cycleStart, date time.Time) int {
	days := int(date.Sub(cycleStart).Hours() / 24)
	return days/7 + 1
}
