package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	from, to, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date range (YYYY-MM-DD): " + err.Error()})
		return
	}
	workouts, err := s.db.QuerySchedule(r.Context(), uid, from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleNextWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	next, err := s.db.NextScheduled(r.Context(), uid, time.Now().UTC().Truncate(24*time.Hour))
	if err != nil {
		s.writeError(w, err)
		return
	}
	exercises, err := s.db.ScheduledExercisesFor(r.Context(), next.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout":   next,
		"exercises": exercises,
	})
}

func (s *Server) handleGetScheduledWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sw, ok := s.getOwnedScheduled(w, r, uid)
	if !ok {
		return
	}
	exercises, err := s.db.ScheduledExercisesFor(r.Context(), sw.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout":   sw,
		"exercises": exercises,
	})
}

// getOwnedScheduled loads the scheduled workout from the URL and enforces
// ownership.
func (s *Server) getOwnedScheduled(w http.ResponseWriter, r *http.Request, uid int) (*models.ScheduledWorkout, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return nil, false
	}
	sw, err := s.db.GetScheduledWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if sw.UserID != uid {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled workout not found"})
		return nil, false
	}
	return sw, true
}

type rescheduleRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sw, ok := s.getOwnedScheduled(w, r, uid)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date (YYYY-MM-DD): " + err.Error()})
		return
	}
	moved, err := s.engine.Reschedule(r.Context(), sw.ID, date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sw, ok := s.getOwnedScheduled(w, r, uid)
	if !ok {
		return
	}
	skipped, err := s.engine.Skip(r.Context(), sw.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, skipped)
}

type completeRequest struct {
	WorkoutLogID uuid.UUID `json:"workout_log_id"`
}

func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	sw, ok := s.getOwnedScheduled(w, r, uid)
	if !ok {
		return
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.WorkoutLogID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workout_log_id is required"})
		return
	}
	completed, err := s.engine.Complete(r.Context(), sw.ID, req.WorkoutLogID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, completed)
}
