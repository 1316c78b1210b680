// Package progress holds the pure strength-progress math: estimated 1RM,
// PR evaluation, and the progressive-overload weight rule. Persistence of
// the outcomes lives in storage so the PR check can run inside the same
// transaction as the workout-log write.
package progress

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/meltforce/repcycle/internal/models"
)

// DefaultRepThreshold is the rep ceiling above which a set never counts as a
// PR, when the user has not configured one.
const DefaultRepThreshold = 5

// Estimated1RM estimates the one-rep max from a (weight, reps) performance
// using the Brzycki formula: weight * 36 / (37 - reps), rounded to two
// decimals. At 37+ reps the denominator collapses, so the estimate is capped
// at the lifted weight.
func Estimated1RM(weight float64, reps int) float64 {
	if reps <= 0 || weight <= 0 {
		return 0
	}
	if reps >= 37 {
		return weight
	}
	return round2(weight * 36.0 / float64(37-reps))
}

// PRCheck is the outcome of comparing a lift against the stored record.
type PRCheck struct {
	IsPR         bool     `json:"is_pr"`
	Reason       string   `json:"reason,omitempty"` // reps_too_high, first_record, not_stronger
	Estimated1RM float64  `json:"estimated_1rm"`
	Previous     *float64 `json:"previous,omitempty"` // previous estimated 1RM
	Improvement  float64  `json:"improvement,omitempty"`
}

// EvaluatePR decides whether a lift beats the current record, by estimated
// 1RM. A first record is a baseline, not a PR; reps above the threshold
// never count. The estimated 1RM across a user's history for one exercise
// is therefore monotonically non-decreasing.
func EvaluatePR(current *models.PersonalRecord, weight float64, reps, repThreshold int) PRCheck {
	if repThreshold <= 0 {
		repThreshold = DefaultRepThreshold
	}
	if reps > repThreshold {
		return PRCheck{Reason: "reps_too_high"}
	}

	est := Estimated1RM(weight, reps)
	if current == nil {
		return PRCheck{Reason: "first_record", Estimated1RM: est}
	}
	if est > current.Estimated1RM {
		prev := current.Estimated1RM
		return PRCheck{
			IsPR:         true,
			Estimated1RM: est,
			Previous:     &prev,
			Improvement:  round2(est - prev),
		}
	}
	return PRCheck{Reason: "not_stronger", Estimated1RM: est}
}

// NextWeight suggests the working weight for the next session from the last
// performance against the target rep range. Hitting the top of the range
// earns an increment (5 for heavy work, 2.5 for light); falling well short
// of the bottom backs off one increment; anything in between holds.
func NextWeight(lastWeight float64, repsAchieved, targetLow, targetHigh int, heavy bool) float64 {
	if lastWeight <= 0 {
		return lastWeight
	}
	increment := 2.5
	if heavy {
		increment = 5.0
	}
	switch {
	case repsAchieved >= targetHigh:
		return lastWeight + increment
	case repsAchieved < targetLow-2:
		return math.Max(lastWeight-increment, 0)
	default:
		return lastWeight
	}
}

// ParseRepRange splits a "low-high" rep range like "4-6". A single number is
// treated as a fixed target (low == high).
func ParseRepRange(s string) (low, high int, err error) {
	s = strings.TrimSpace(s)
	if lo, hi, found := strings.Cut(s, "-"); found {
		low, err = strconv.Atoi(strings.TrimSpace(lo))
		if err == nil {
			high, err = strconv.Atoi(strings.TrimSpace(hi))
		}
	} else {
		low, err = strconv.Atoi(s)
		high = low
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rep range %q", s)
	}
	if low < 1 || high < low {
		return 0, 0, fmt.Errorf("invalid rep range %q", s)
	}
	return low, high, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
