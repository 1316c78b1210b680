package mcp

import (
	"context"
	"testing"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestDefaultDateRange verifies date range defaults and parsing.
func TestDefaultDateRange(t *testing.T) {
	// Both empty → current week through 4 weeks out
	from, to, err := defaultDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := to.Sub(from); diff.Hours() != 28*24 {
		t.Errorf("default range = %.0f hours, want %d", diff.Hours(), 28*24)
	}

	// Explicit dates
	from, to, err = defaultDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Year() != 2024 || from.Month() != 1 || from.Day() != 1 {
		t.Errorf("from = %v, want 2024-01-01", from)
	}
	if to.Day() != 31 {
		t.Errorf("to = %v, want 2024-01-31", to)
	}

	// Invalid
	if _, _, err = defaultDateRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}
