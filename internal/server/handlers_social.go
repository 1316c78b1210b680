package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createShareRequest struct {
	CycleID     uuid.UUID `json:"cycle_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req createShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
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
	title := req.Title
	if title == "" {
		title = cycle.Name
	}
	share, err := s.db.CreateShare(r.Context(), cycle.ID, uid, title, req.Description, req.IsPublic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

// handleGetShare returns a shared cycle's definition. The code itself is the
// capability: anyone holding it can view, public or not.
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	share, err := s.db.GetShareByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	slots, err := s.db.SlotsForCycle(r.Context(), share.CycleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	exercises, err := s.db.SlotExercisesForCycle(r.Context(), share.CycleID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	owner, err := s.db.GetUser(r.Context(), share.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"share":     share,
		"shared_by": owner.DisplayName,
		"slots":     slots,
		"exercises": exercises,
	})
}

func (s *Server) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteShare(r.Context(), chi.URLParam(r, "code"), uid); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type copyShareRequest struct {
	StartDate string `json:"start_date"`
}

func (s *Server) handleCopyShare(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req copyShareRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		var err error
		if start, err = parseDate(req.StartDate); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start date (YYYY-MM-DD): " + err.Error()})
			return
		}
	}
	clone, err := s.db.CopyFromShare(r.Context(), chi.URLParam(r, "code"), uid, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}
