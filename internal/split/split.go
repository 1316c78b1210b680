// Package split generates weekly workout-slot patterns for the supported
// training splits. The output is a template: slot positions with heavy/light
// designations and optional week-pattern tags for rotating splits. Binding
// to calendar dates happens later, in the schedule materializer.
package split

import (
	"fmt"

	"github.com/meltforce/repcycle/internal/models"
)

// Plan is a generated weekly slot pattern for one split configuration.
type Plan struct {
	SplitType     string     `json:"split_type"`
	DaysPerWeek   int        `json:"days_per_week"`
	RotationWeeks int        `json:"rotation_weeks"`
	Summary       string     `json:"summary"`
	Slots         []PlanSlot `json:"slots"`
}

// PlanSlot is one recurring training day in the pattern.
type PlanSlot struct {
	DayOfWeek    int      `json:"day_of_week"` // 0-based position within the training week
	Name         string   `json:"name"`
	IsHeavy      bool     `json:"is_heavy"`
	OrderIndex   int      `json:"order_index"`
	WeekPattern  *string  `json:"week_pattern,omitempty"`
	MuscleGroups []string `json:"muscle_groups"`
}

// Muscle groups covered by each focus.
var focusMuscles = map[string][]string{
	"Push":      {"chest", "shoulders", "triceps"},
	"Pull":      {"back", "biceps", "rear_delts"},
	"Legs":      {"quads", "hamstrings", "glutes", "calves"},
	"Upper":     {"chest", "back", "shoulders", "biceps", "triceps"},
	"Lower":     {"quads", "hamstrings", "glutes", "calves"},
	"Full Body": {"chest", "back", "shoulders", "quads", "hamstrings", "glutes", "biceps", "triceps"},
}

// daySpec is a compact template entry: focus name, heavy flag, and the
// rotation pattern the day belongs to ("" = every week).
type daySpec struct {
	focus   string
	heavy   bool
	pattern string
}

// Generate builds the slot pattern for a split type and training frequency.
// Custom returns an empty pattern for the user to fill in slot by slot.
func Generate(splitType string, daysPerWeek int) (*Plan, error) {
	if daysPerWeek < 1 || daysPerWeek > 7 {
		return nil, fmt.Errorf("days per week %d out of range", daysPerWeek)
	}

	switch splitType {
	case models.SplitFullBody:
		return fullBody(daysPerWeek), nil
	case models.SplitUpperLower:
		return upperLower(daysPerWeek)
	case models.SplitPPL:
		return ppl(daysPerWeek)
	case models.SplitCustom:
		return &Plan{
			SplitType:     splitType,
			DaysPerWeek:   daysPerWeek,
			RotationWeeks: 1,
			Summary:       "Custom split - build your own days",
		}, nil
	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
}

// fullBody repeats the same session every training day; heavy/light comes
// from week parity at materialize time.
func fullBody(days int) *Plan {
	specs := make([]daySpec, days)
	for i := range specs {
		specs[i] = daySpec{focus: "Full Body", heavy: true}
	}
	return build(models.SplitFullBody, days, 1,
		"Full body every session", specs)
}

func upperLower(days int) (*Plan, error) {
	switch days {
	case 2:
		return build(models.SplitUpperLower, days, 1,
			"Upper/Lower once each per week",
			[]daySpec{{"Upper", true, ""}, {"Lower", true, ""}}), nil
	case 3:
		// Three days can't split evenly; alternate the extra session over
		// two weeks so both halves get equal frequency.
		return build(models.SplitUpperLower, days, 2,
			"Upper/Lower - 2-week rotation to balance frequency",
			[]daySpec{
				{"Upper", true, "odd"}, {"Lower", true, "odd"}, {"Upper", false, "odd"},
				{"Lower", true, "even"}, {"Upper", true, "even"}, {"Lower", false, "even"},
			}), nil
	case 4:
		return build(models.SplitUpperLower, days, 1,
			"Upper/Lower twice each - heavy then light",
			[]daySpec{
				{"Upper", true, ""}, {"Lower", true, ""},
				{"Upper", false, ""}, {"Lower", false, ""},
			}), nil
	default:
		return nil, fmt.Errorf("upper/lower supports 2-4 days, got %d", days)
	}
}

func ppl(days int) (*Plan, error) {
	switch days {
	case 6:
		return build(models.SplitPPL, days, 1,
			"Classic PPL x2 - each muscle group 2x/week",
			[]daySpec{
				{"Push", true, ""}, {"Pull", true, ""}, {"Legs", true, ""},
				{"Push", false, ""}, {"Pull", false, ""}, {"Legs", false, ""},
			}), nil
	case 3:
		// Compressed PPL x2: combined days, heavy/light alternating by week
		// parity (rotation period 1).
		return build(models.SplitPPL, days, 1,
			"Combined PPL - Push+Pull, Legs+Push, Pull+Legs",
			[]daySpec{
				{"Push + Pull", true, ""}, {"Legs + Push", true, ""}, {"Pull + Legs", true, ""},
			}), nil
	case 2:
		// Two days cover three focuses by rotating over three weeks.
		return build(models.SplitPPL, days, 3,
			"PPL over 2 days - 3-week rotation",
			[]daySpec{
				{"Push + Pull", true, "week_mod_1"}, {"Legs", true, "week_mod_1"},
				{"Push", true, "week_mod_2"}, {"Pull + Legs", true, "week_mod_2"},
				{"Legs + Push", true, "week_mod_0"}, {"Pull", true, "week_mod_0"},
			}), nil
	case 4, 5:
		return nil, fmt.Errorf("ppl with %d days not supported, use 2, 3 or 6", days)
	default:
		return nil, fmt.Errorf("ppl supports 2, 3 or 6 days, got %d", days)
	}
}

func build(splitType string, days, rotationWeeks int, summary string, specs []daySpec) *Plan {
	plan := &Plan{
		SplitType:     splitType,
		DaysPerWeek:   days,
		RotationWeeks: rotationWeeks,
		Summary:       summary,
	}
	pos := 0
	lastPattern := ""
	for i, spec := range specs {
		if i > 0 && spec.pattern != lastPattern {
			pos = 0 // day positions restart for each rotation pattern
		}
		lastPattern = spec.pattern

		slot := PlanSlot{
			DayOfWeek:    pos,
			Name:         displayName(spec),
			IsHeavy:      spec.heavy,
			OrderIndex:   i,
			MuscleGroups: musclesFor(spec.focus),
		}
		if spec.pattern != "" {
			p := spec.pattern
			slot.WeekPattern = &p
		}
		plan.Slots = append(plan.Slots, slot)
		pos++
	}
	return plan
}

func displayName(spec daySpec) string {
	if spec.heavy {
		return spec.focus + " (Heavy)"
	}
	return spec.focus + " (Light)"
}

func musclesFor(focus string) []string {
	if groups, ok := focusMuscles[focus]; ok {
		return groups
	}
	// Combined focuses like "Push + Pull": union in template order.
	var all []string
	seen := make(map[string]bool)
	for name, groups := range focusMuscles {
		if !containsFocus(focus, name) {
			continue
		}
		for _, g := range groups {
			if !seen[g] {
				seen[g] = true
				all = append(all, g)
			}
		}
	}
	return all
}

func containsFocus(combined, name string) bool {
	for start := 0; start+len(name) <= len(combined); start++ {
		if combined[start:start+len(name)] == name {
			return true
		}
	}
	return false
}
