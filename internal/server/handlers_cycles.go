package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/repcycle/internal/models"
	"github.com/meltforce/repcycle/internal/schedule"
	"github.com/meltforce/repcycle/internal/split"
)

type slotExerciseRequest struct {
	ExerciseID    uuid.UUID `json:"exercise_id"`
	IsHeavy       bool      `json:"is_heavy"`
	OrderIndex    int       `json:"order_index"`
	SetsHeavy     int       `json:"sets_heavy"`
	SetsLight     int       `json:"sets_light"`
	RepRangeHeavy string    `json:"rep_range_heavy"`
	RepRangeLight string    `json:"rep_range_light"`
	RestHeavy     int       `json:"rest_seconds_heavy"`
	RestLight     int       `json:"rest_seconds_light"`
	WeekNumber    *int      `json:"week_number,omitempty"`
}

type slotRequest struct {
	DayOfWeek   int                   `json:"day_of_week"`
	Name        string                `json:"name"`
	IsHeavy     bool                  `json:"is_heavy"`
	OrderIndex  int                   `json:"order_index"`
	WeekPattern *string               `json:"week_pattern,omitempty"`
	Exercises   []slotExerciseRequest `json:"exercises"`
}

type createCycleRequest struct {
	Name          string        `json:"name"`
	StartDate     string        `json:"start_date"`
	LengthWeeks   int           `json:"length_weeks"`
	DaysPerWeek   int           `json:"days_per_week"`
	SplitType     string        `json:"split_type"`
	RotationWeeks int           `json:"rotation_weeks"`
	StartsHeavy   *bool         `json:"starts_heavy,omitempty"`
	Slots         []slotRequest `json:"slots"`
}

func (s *Server) handleCreateCycle(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req createCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start date (YYYY-MM-DD): " + err.Error()})
		return
	}
	if req.Name == "" || req.LengthWeeks < 1 || req.LengthWeeks > 16 || req.DaysPerWeek < 1 || req.DaysPerWeek > 7 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, length_weeks 1-16 and days_per_week 1-7 are required"})
		return
	}

	startsHeavy := true
	if req.StartsHeavy != nil {
		startsHeavy = *req.StartsHeavy
	}
	rotation := req.RotationWeeks
	if rotation < 1 {
		rotation = 1
	}

	cycle := &models.Cycle{
		ID:            uuid.New(),
		UserID:        uid,
		Name:          req.Name,
		StartDate:     start,
		EndDate:       models.CycleEndDate(start, req.LengthWeeks),
		LengthWeeks:   req.LengthWeeks,
		DaysPerWeek:   req.DaysPerWeek,
		SplitType:     req.SplitType,
		RotationWeeks: rotation,
		StartsHeavy:   startsHeavy,
		Status:        models.CycleStatusPlanned,
	}

	var slots []models.WorkoutSlot
	var exercises []models.SlotExercise
	if len(req.Slots) > 0 {
		for _, sr := range req.Slots {
			slot := models.WorkoutSlot{
				ID:          uuid.New(),
				CycleID:     cycle.ID,
				DayOfWeek:   sr.DayOfWeek,
				Name:        sr.Name,
				IsHeavy:     sr.IsHeavy,
				OrderIndex:  sr.OrderIndex,
				WeekPattern: sr.WeekPattern,
			}
			slots = append(slots, slot)
			for _, er := range sr.Exercises {
				exercises = append(exercises, models.SlotExercise{
					ID:            uuid.New(),
					CycleID:       cycle.ID,
					SlotID:        slot.ID,
					ExerciseID:    er.ExerciseID,
					IsHeavy:       er.IsHeavy,
					OrderIndex:    er.OrderIndex,
					SetsHeavy:     er.SetsHeavy,
					SetsLight:     er.SetsLight,
					RepRangeHeavy: er.RepRangeHeavy,
					RepRangeLight: er.RepRangeLight,
					RestHeavy:     er.RestHeavy,
					RestLight:     er.RestLight,
					WeekNumber:    er.WeekNumber,
				})
			}
		}
	} else {
		// No explicit slots: generate the pattern from the split type.
		plan, err := split.Generate(req.SplitType, req.DaysPerWeek)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		cycle.RotationWeeks = plan.RotationWeeks
		for _, ps := range plan.Slots {
			slots = append(slots, models.WorkoutSlot{
				ID:          uuid.New(),
				CycleID:     cycle.ID,
				DayOfWeek:   ps.DayOfWeek,
				Name:        ps.Name,
				IsHeavy:     ps.IsHeavy,
				OrderIndex:  ps.OrderIndex,
				WeekPattern: ps.WeekPattern,
			})
		}
	}

	if err := s.db.CreateCyclePlan(r.Context(), cycle, slots, exercises); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cycle)
}

func (s *Server) handleListCycles(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycles, err := s.db.ListCycles(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cycles)
}

// getOwnedCycle loads the cycle from the URL and enforces ownership. Foreign
// cycles read as not found so IDs don't leak.
func (s *Server) getOwnedCycle(w http.ResponseWriter, r *http.Request, uid int) (*models.Cycle, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cycle ID"})
		return nil, false
	}
	cycle, err := s.db.GetCycle(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if cycle.UserID != uid {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cycle not found"})
		return nil, false
	}
	return cycle, true
}

func (s *Server) handleGetCycle(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycle, ok := s.getOwnedCycle(w, r, uid)
	if !ok {
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
	writeJSON(w, http.StatusOK, map[string]any{
		"cycle":     cycle,
		"slots":     slots,
		"exercises": exercises,
	})
}

type activateRequest struct {
	PreferredDays []int `json:"preferred_days"`
}

// handleActivateCycle flips a planned cycle to active and materializes its
// schedule. Re-activating an active cycle just re-runs materialization,
// which is idempotent.
func (s *Server) handleActivateCycle(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycle, ok := s.getOwnedCycle(w, r, uid)
	if !ok {
		return
	}

	var req activateRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body is fine
	}
	preferred := req.PreferredDays
	if len(preferred) == 0 {
		settings, err := s.db.GetSettings(r.Context(), uid)
		if err != nil {
			s.writeError(w, err)
			return
		}
		preferred = settings.PreferredDays
	}

	if cycle.Status == models.CycleStatusPlanned {
		updated, err := s.db.UpdateCycleStatus(r.Context(), cycle.ID, models.CycleStatusActive)
		if err != nil {
			s.writeError(w, err)
			return
		}
		cycle = updated
	} else if cycle.Status != models.CycleStatusActive {
		s.writeError(w, fmt.Errorf("%w: cycle is %s", schedule.ErrInvalidTransition, cycle.Status))
		return
	}

	count, err := s.engine.Materialize(r.Context(), cycle.ID, toWeekdays(preferred))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cycle":     cycle,
		"scheduled": count,
	})
}

func (s *Server) handleCompleteCycle(w http.ResponseWriter, r *http.Request) {
	s.updateCycleStatus(w, r, models.CycleStatusCompleted)
}

func (s *Server) handleAbandonCycle(w http.ResponseWriter, r *http.Request) {
	s.updateCycleStatus(w, r, models.CycleStatusAbandoned)
}

func (s *Server) updateCycleStatus(w http.ResponseWriter, r *http.Request, status string) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycle, ok := s.getOwnedCycle(w, r, uid)
	if !ok {
		return
	}
	updated, err := s.db.UpdateCycleStatus(r.Context(), cycle.ID, status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type copyCycleRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
}

func (s *Server) handleCopyCycle(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	cycle, ok := s.getOwnedCycle(w, r, uid)
	if !ok {
		return
	}
	var req copyCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		var err error
		if start, err = parseDate(req.StartDate); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start date (YYYY-MM-DD): " + err.Error()})
			return
		}
	}
	clone, err := s.db.DeepCopyCycle(r.Context(), cycle.ID, uid, req.Name, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}
