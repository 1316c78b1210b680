package storage

import (
	"strings"
	"testing"
)

// TestNormalizeNote verifies note text handling: whitespace is trimmed,
// overlong notes are truncated to the cap, and multibyte runes survive
// truncation intact.
func TestNormalizeNote(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"trimmed", "  low bar, pin 12  ", "low bar, pin 12"},
		{"empty", "   \n\t ", ""},
		{"short kept", "pause at chest", "pause at chest"},
		{"truncated", strings.Repeat("a", MaxNoteLength+50), strings.Repeat("a", MaxNoteLength)},
	}
	for _, tt := range tests {
		if got := NormalizeNote(tt.in); got != tt.want {
			t.Errorf("%s: NormalizeNote = %q, want %q", tt.name, got, tt.want)
		}
	}

	long := strings.Repeat("ö", MaxNoteLength+10)
	got := NormalizeNote(long)
	if runes := []rune(got); len(runes) != MaxNoteLength {
		t.Errorf("multibyte truncation = %d runes, want %d", len(runes), MaxNoteLength)
	}
}
