package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
)

type logSetRequest struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	SetNumber  int       `json:"set_number"`
	WeightKg   float64   `json:"weight_kg"`
	Reps       int       `json:"reps"`
	IsWarmup   bool      `json:"is_warmup"`
}

type logWorkoutRequest struct {
	Name               string          `json:"name"`
	StartedAt          time.Time       `json:"started_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Sets               []logSetRequest `json:"sets"`
	ScheduledWorkoutID *uuid.UUID      `json:"scheduled_workout_id,omitempty"`
}

// handleLogWorkout records a performed workout. Sets and PR checks commit in
// one transaction; when a scheduled workout is referenced, it is completed
// and linked afterwards.
func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req logWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.StartedAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "started_at is required"})
		return
	}

	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}

	log := &models.WorkoutLog{
		ID:          uuid.New(),
		UserID:      uid,
		Name:        req.Name,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
		Notes:       req.Notes,
	}
	sets := make([]models.WorkoutLogSet, len(req.Sets))
	for i, sr := range req.Sets {
		sets[i] = models.WorkoutLogSet{
			ID:           uuid.New(),
			WorkoutLogID: log.ID,
			ExerciseID:   sr.ExerciseID,
			SetNumber:    sr.SetNumber,
			WeightKg:     sr.WeightKg,
			Reps:         sr.Reps,
			IsWarmup:     sr.IsWarmup,
		}
	}

	prs, err := s.db.CreateWorkoutLog(r.Context(), log, sets, settings.PRRepThreshold)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := map[string]any{"log": log, "prs": prs}
	if req.ScheduledWorkoutID != nil {
		sw, err := s.db.GetScheduledWorkout(r.Context(), *req.ScheduledWorkoutID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if sw.UserID != uid {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "scheduled workout not found"})
			return
		}
		completed, err := s.engine.Complete(r.Context(), sw.ID, log.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		resp["scheduled"] = completed
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
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
	logs, err := s.db.ListWorkoutLogs(r.Context(), uid, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}
	log, sets, err := s.db.GetWorkoutLog(r.Context(), id, uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"log": log, "sets": sets})
}

type ingestSetRequest struct {
	ExerciseName string  `json:"exercise_name"`
	SetNumber    int     `json:"set_number"`
	WeightKg     float64 `json:"weight_kg"`
	Reps         int     `json:"reps"`
	IsWarmup     bool    `json:"is_warmup"`
}

type ingestWorkoutRequest struct {
	Login       string             `json:"login"`
	Name        string             `json:"name"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	Sets        []ingestSetRequest `json:"sets"`
}

// handleIngestWorkout accepts a workout log from the offline uploader. The
// uploader authenticates with an API key and names exercises rather than
// carrying catalog IDs.
func (s *Server) handleIngestWorkout(w http.ResponseWriter, r *http.Request) {
	var req ingestWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Login == "" || req.StartedAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "login and started_at are required"})
		return
	}

	uid, err := s.db.GetOrCreateUser(r.Context(), req.Login, "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}

	log := &models.WorkoutLog{
		ID:          uuid.New(),
		UserID:      uid,
		Name:        req.Name,
		StartedAt:   req.StartedAt,
		CompletedAt: req.CompletedAt,
		Notes:       req.Notes,
	}
	sets := make([]models.WorkoutLogSet, 0, len(req.Sets))
	for _, sr := range req.Sets {
		ex, err := s.db.GetExerciseByName(r.Context(), sr.ExerciseName)
		if err != nil {
			s.writeError(w, err)
			return
		}
		sets = append(sets, models.WorkoutLogSet{
			ID:           uuid.New(),
			WorkoutLogID: log.ID,
			ExerciseID:   ex.ID,
			SetNumber:    sr.SetNumber,
			WeightKg:     sr.WeightKg,
			Reps:         sr.Reps,
			IsWarmup:     sr.IsWarmup,
		})
	}

	prs, err := s.db.CreateWorkoutLog(r.Context(), log, sets, settings.PRRepThreshold)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"log": log, "prs": prs})
}
