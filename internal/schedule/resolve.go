package schedule

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

// Week-pattern tags for rotating splits. A 2-week rotation alternates
// odd/even; longer rotations use week_mod_<n> where n = week % rotation.
const (
	PatternOdd  = "odd"
	PatternEven = "even"
)

// PatternForWeek returns the rotation pattern tag applying to a given week,
// or "" when the cycle does not rotate (rotationWeeks <= 1).
func PatternForWeek(week, rotationWeeks int) string {
	switch {
	case rotationWeeks <= 1:
		return ""
	case rotationWeeks == 2:
		if week%2 == 1 {
			return PatternOdd
		}
		return PatternEven
	default:
		return fmt.Sprintf("week_mod_%d", week%rotationWeeks)
	}
}

// slotApplies reports whether a slot participates in a week with the given
// pattern tag. Untagged slots apply every week. An empty pattern means the
// cycle does not rotate, and then tags are ignored rather than excluding the
// slot from every week.
func slotApplies(slot models.WorkoutSlot, pattern string) bool {
	if slot.WeekPattern == nil || pattern == "" {
		return true
	}
	return *slot.WeekPattern == pattern
}

// EffectiveExercises resolves the prescriptions for one slot in one week:
// if any week-specific rows exist for (slot, week) they replace the
// week-agnostic defaults wholesale, which is how deload weeks deviate from
// the template without touching it.
func EffectiveExercises(all []models.SlotExercise, slotID uuid.UUID, week int) []models.SlotExercise {
	var specific, defaults []models.SlotExercise
	for _, ex := range all {
		if ex.SlotID != slotID {
			continue
		}
		switch {
		case ex.WeekNumber == nil:
			defaults = append(defaults, ex)
		case *ex.WeekNumber == week:
			specific = append(specific, ex)
		}
	}
	if len(specific) > 0 {
		return specific
	}
	return defaults
}

// heavyInWeek resolves the heavy/light designation for a week. With a
// rotation period of 1 (compressed splits like PPL×2) the designation
// alternates by absolute week parity: odd weeks keep the template
// designation when the cycle starts heavy, even weeks flip it. Longer
// rotations carry the designation on the slot/exercise itself. Resolved
// once at materialize time and frozen into the scheduled prescriptions.
func heavyInWeek(cycle *models.Cycle, templateHeavy bool, week int) bool {
	if cycle.RotationWeeks > 1 {
		return templateHeavy
	}
	if (week%2 == 1) == cycle.StartsHeavy {
		return templateHeavy
	}
	return !templateHeavy
}

// prescription freezes one slot exercise into its effective scheduled form.
func prescription(ex models.SlotExercise, heavy bool) models.ScheduledExercise {
	se := models.ScheduledExercise{
		ExerciseID:   ex.ExerciseID,
		ExerciseName: ex.ExerciseName,
		MuscleGroup:  ex.MuscleGroup,
		IsHeavy:      heavy,
		OrderIndex:   ex.OrderIndex,
	}
	if heavy {
		se.Sets = ex.SetsHeavy
		se.RepRange = ex.RepRangeHeavy
		se.RestSeconds = ex.RestHeavy
	} else {
		se.Sets = ex.SetsLight
		se.RepRange = ex.RepRangeLight
		se.RestSeconds = ex.RestLight
	}
	return se
}
