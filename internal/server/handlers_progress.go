package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/progress"
	"github.com/meltforce/repcycle/internal/schedule"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	records, err := s.db.ListPersonalRecords(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleRecordHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "exerciseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	history, err := s.db.PRHistory(r.Context(), uid, exerciseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, err := uuid.Parse(chi.URLParam(r, "exerciseID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise ID"})
		return
	}
	record, err := s.db.GetPersonalRecord(r.Context(), uid, exerciseID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if record == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record for exercise"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// handleNotifications returns the user's recent dispatch log, newest first.
func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	entries, err := s.db.ListNotifications(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycleID, err := uuid.Parse(r.URL.Query().Get("cycle_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cycle_id parameter required"})
		return
	}
	week, err := strconv.Atoi(r.URL.Query().Get("week"))
	if err != nil || week < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week parameter required"})
		return
	}
	suggestions, err := s.db.SuggestionsForWeek(r.Context(), uid, cycleID, week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

type generateSuggestionsRequest struct {
	CycleID uuid.UUID `json:"cycle_id"`
	Week    int       `json:"week"`
}

// handleGenerateSuggestions computes next-session working weights for every
// exercise prescribed in one week of a cycle, from the user's last logged
// performance against the prescribed rep range. Exercises never logged are
// skipped; re-generating overwrites earlier suggestions for the week.
func (s *Server) handleGenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req generateSuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.CycleID == uuid.Nil || req.Week < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cycle_id and week are required"})
		return
	}

	cycle, err := s.db.GetCycle(r.Context(), req.CycleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if cycle.UserID != uid {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cycle not found"})
		return
	}
	if req.Week > cycle.LengthWeeks {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week beyond cycle length"})
		return
	}

	slots, err := s.db.SlotsForCycle(r.Context(), cycle.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	exercises, err := s.db.SlotExercisesForCycle(r.Context(), cycle.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	for _, p := range schedule.PrescriptionsForWeek(cycle, slots, exercises, req.Week) {
		low, high, err := progress.ParseRepRange(p.RepRange)
		if err != nil {
			continue
		}
		weight, reps, logID, err := s.db.LastWorkingWeight(r.Context(), uid, p.ExerciseID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if weight <= 0 {
			continue // never logged, nothing to progress from
		}
		err = s.db.UpsertSuggestion(r.Context(), models.WeightSuggestion{
			UserID:          uid,
			CycleID:         cycle.ID,
			ExerciseID:      p.ExerciseID,
			WeekNumber:      req.Week,
			IsHeavy:         p.IsHeavy,
			SuggestedWeight: progress.NextWeight(weight, reps, low, high, p.IsHeavy),
			BasedOnLogID:    logID,
		})
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	suggestions, err := s.db.SuggestionsForWeek(r.Context(), uid, cycle.ID, req.Week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}
