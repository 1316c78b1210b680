package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/schedule"
)

// TestHandleMeDevIdentity verifies /me reflects the fallback local dev
// identity when no Tailscale middleware is active.
func TestHandleMeDevIdentity(t *testing.T) {
	s := &Server{log: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["login"] != "local" {
		t.Errorf("login = %v, want local", body["login"])
	}
}

// TestHandleMeTailscaleIdentity verifies /me reflects the identity stored in
// context.
func TestHandleMeTailscaleIdentity(t *testing.T) {
	s := &Server{log: slog.Default()}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userIDKey, 7)
	ctx = context.WithValue(ctx, userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["login"] != "alice@example.com" {
		t.Errorf("login = %v, want alice@example.com", body["login"])
	}
	if body["user_id"].(float64) != 7 {
		t.Errorf("user_id = %v, want 7", body["user_id"])
	}
}

// TestWriteErrorMapping verifies the sentinel-to-status mapping at the
// handler boundary.
func TestWriteErrorMapping(t *testing.T) {
	s := &Server{log: slog.Default()}
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("cycle x: %w", schedule.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("bad weekdays: %w", schedule.ErrConfiguration), http.StatusBadRequest},
		{fmt.Errorf("date taken: %w", schedule.ErrScheduleConflict), http.StatusConflict},
		{fmt.Errorf("already completed: %w", schedule.ErrInvalidTransition), http.StatusUnprocessableEntity},
		{fmt.Errorf("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.writeError(rec, tt.err)
		if rec.Code != tt.want {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}

// TestSaveExerciseNoteRejectsBadInput verifies the note endpoints reject a
// malformed exercise ID and malformed JSON before touching storage.
func TestSaveExerciseNoteRejectsBadInput(t *testing.T) {
	s := &Server{log: slog.Default()}
	router := chi.NewRouter()
	router.Put("/api/v1/exercises/{id}/note", s.handleSaveExerciseNote)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/exercises/not-a-uuid/note", strings.NewReader(`{"note":"x"}`))
	ctx := context.WithValue(req.Context(), userIDKey, 1)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad exercise ID: status = %d, want 400", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/v1/exercises/"+uuid.NewString()+"/note", strings.NewReader(`{`))
	ctx = context.WithValue(req.Context(), userIDKey, 1)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad JSON: status = %d, want 400", rec.Code)
	}
}

func TestParseDateRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule?from=2024-01-01&to=2024-01-31", nil)
	from, to, err := parseDateRange(req)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if from.Format("2006-01-02") != "2024-01-01" || to.Format("2006-01-02") != "2024-01-31" {
		t.Errorf("range = [%s, %s]", from, to)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/schedule?from=2024-01-01", nil)
	from, to, err = parseDateRange(req)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if !to.Equal(from.AddDate(0, 0, 28)) {
		t.Errorf("default to = %s, want from+28d", to)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/schedule?from=bogus", nil)
	if _, _, err := parseDateRange(req); err == nil {
		t.Error("bogus from date should be rejected")
	}
}

func TestToWeekdays(t *testing.T) {
	got := toWeekdays([]int{1, 3, 5})
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toWeekdays[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
