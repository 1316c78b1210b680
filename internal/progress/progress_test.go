package progress

import (
	"math"
	"testing"

	"github.com/meltforce/repcycle/internal/models"
)

func TestEstimated1RM(t *testing.T) {
	tests := []struct {
		weight float64
		reps   int
		want   float64
	}{
		{100, 5, 112.5},     // 100 * 36 / 32
		{105, 5, 118.13},    // 105 * 36 / 32 = 118.125, rounded
		{100, 1, 100},       // single: 36/36
		{60, 12, 86.4},      // 60 * 36 / 25
		{100, 37, 100},      // formula capped at the lifted weight
		{100, 40, 100},
		{0, 5, 0},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := Estimated1RM(tt.weight, tt.reps); math.Abs(got-tt.want) > 0.001 {
			t.Errorf("Estimated1RM(%.1f, %d) = %.3f, want %.3f", tt.weight, tt.reps, got, tt.want)
		}
	}
}

// TestEvaluatePRProgression walks the canonical sequence: 100×5 is a
// baseline, 105×5 beats it by estimated 1RM, a heavier-but-higher-rep set
// above the threshold never counts.
func TestEvaluatePRProgression(t *testing.T) {
	first := EvaluatePR(nil, 100, 5, 5)
	if first.IsPR {
		t.Error("first record should be a baseline, not a PR")
	}
	if first.Reason != "first_record" {
		t.Errorf("reason = %q, want first_record", first.Reason)
	}
	if math.Abs(first.Estimated1RM-112.5) > 0.001 {
		t.Errorf("estimated 1RM = %.3f, want 112.5", first.Estimated1RM)
	}

	current := &models.PersonalRecord{WeightKg: 100, Reps: 5, Estimated1RM: first.Estimated1RM}

	second := EvaluatePR(current, 105, 5, 5)
	if !second.IsPR {
		t.Fatalf("105×5 should beat 100×5: %+v", second)
	}
	if second.Previous == nil || math.Abs(*second.Previous-112.5) > 0.001 {
		t.Errorf("previous = %v, want 112.5", second.Previous)
	}

	tooMany := EvaluatePR(current, 120, 10, 5)
	if tooMany.IsPR || tooMany.Reason != "reps_too_high" {
		t.Errorf("10 reps over threshold 5: %+v", tooMany)
	}

	weaker := EvaluatePR(current, 95, 5, 5)
	if weaker.IsPR || weaker.Reason != "not_stronger" {
		t.Errorf("95×5 vs 112.5 e1RM: %+v", weaker)
	}
}

// TestEvaluatePRCrossRepCount verifies PRs rank by estimated 1RM, not raw
// weight: 90×5 (101.25) beats 100×1 (100.00) despite the lighter bar.
func TestEvaluatePRCrossRepCount(t *testing.T) {
	current := &models.PersonalRecord{WeightKg: 100, Reps: 1, Estimated1RM: 100}
	check := EvaluatePR(current, 90, 5, 5)
	if !check.IsPR {
		t.Fatalf("90×5 should outrank 100×1 by estimated 1RM: %+v", check)
	}
	if math.Abs(check.Estimated1RM-101.25) > 0.001 {
		t.Errorf("estimated 1RM = %.3f, want 101.25", check.Estimated1RM)
	}
}

func TestNextWeight(t *testing.T) {
	tests := []struct {
		name                  string
		last                  float64
		reps, low, high       int
		heavy                 bool
		want                  float64
	}{
		{"hit top heavy", 100, 8, 6, 8, true, 105},
		{"hit top light", 50, 12, 10, 12, false, 52.5},
		{"in range holds", 100, 7, 6, 8, true, 100},
		{"just under holds", 100, 5, 6, 8, true, 100},
		{"well under backs off", 100, 3, 6, 8, true, 95},
		{"never below zero", 2.5, 1, 6, 8, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeight(tt.last, tt.reps, tt.low, tt.high, tt.heavy)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("NextWeight = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

func TestParseRepRange(t *testing.T) {
	tests := []struct {
		in        string
		low, high int
		wantErr   bool
	}{
		{"4-6", 4, 6, false},
		{"10-15", 10, 15, false},
		{"5", 5, 5, false},
		{" 8 - 12 ", 8, 12, false},
		{"", 0, 0, true},
		{"6-4", 0, 0, true},
		{"0-5", 0, 0, true},
		{"abc", 0, 0, true},
	}
	for _, tt := range tests {
		low, high, err := ParseRepRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepRange(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepRange(%q): %v", tt.in, err)
			continue
		}
		if low != tt.low || high != tt.high {
			t.Errorf("ParseRepRange(%q) = (%d, %d), want (%d, %d)", tt.in, low, high, tt.low, tt.high)
		}
	}
}
