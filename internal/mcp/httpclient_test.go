package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func TestQuerySchedule(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/schedule": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("from"); got != "2026-02-02" {
				t.Errorf("from=%q, want 2026-02-02", got)
			}
			if got := r.URL.Query().Get("to"); got != "2026-03-02" {
				t.Errorf("to=%q, want 2026-03-02", got)
			}
			writeTestJSON(t, w, []models.ScheduledWorkout{
				{ID: uuid.New(), WeekNumber: 1, Status: models.ScheduledStatusScheduled},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	from := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	workouts, err := client.QuerySchedule(context.Background(), 1, from, to)
	if err != nil {
		t.Fatalf("QuerySchedule: %v", err)
	}
	if len(workouts) != 1 || workouts[0].Status != models.ScheduledStatusScheduled {
		t.Errorf("workouts = %+v", workouts)
	}
}

func TestNextScheduledEnvelope(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/schedule/next": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]any{
				"workout":   models.ScheduledWorkout{ID: id, WeekNumber: 2},
				"exercises": []models.ScheduledExercise{{ExerciseName: "Barbell Back Squat"}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	next, err := client.NextScheduled(context.Background(), 1, time.Now())
	if err != nil {
		t.Fatalf("NextScheduled: %v", err)
	}
	if next.ID != id || next.WeekNumber != 2 {
		t.Errorf("next = %+v", next)
	}
}

// A 404 from the server surfaces as ErrNotFound so the resource handler can
// report "nothing scheduled" instead of a hard error.
func TestNextScheduledNotFound(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/schedule/next": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.NextScheduled(context.Background(), 1, time.Now())
	if !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestScheduledExercisesFor(t *testing.T) {
	id := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/schedule/" + id.String(): func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, map[string]any{
				"workout": models.ScheduledWorkout{ID: id},
				"exercises": []models.ScheduledExercise{
					{ExerciseName: "Barbell Bench Press", Sets: 4, RepRange: "4-6"},
					{ExerciseName: "Cable Fly", Sets: 3, RepRange: "10-15"},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	exercises, err := client.ScheduledExercisesFor(context.Background(), id)
	if err != nil {
		t.Fatalf("ScheduledExercisesFor: %v", err)
	}
	if len(exercises) != 2 || exercises[0].RepRange != "4-6" {
		t.Errorf("exercises = %+v", exercises)
	}
}

func TestListWorkoutLogsLimit(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/workouts": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, []models.WorkoutLog{{Name: "Push Day"}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	logs, err := client.ListWorkoutLogs(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("ListWorkoutLogs: %v", err)
	}
	if len(logs) != 1 || logs[0].Name != "Push Day" {
		t.Errorf("logs = %+v", logs)
	}
}
