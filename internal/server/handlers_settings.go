package server

import (
	"encoding/json"
	"net/http"

	"github.com/meltforce/repcycle/internal/models"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	settings, err := s.db.GetSettings(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var settings models.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	settings.UserID = uid

	if settings.DaysPerWeek < 1 || settings.DaysPerWeek > 7 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days_per_week must be 1-7"})
		return
	}
	if len(settings.PreferredDays) != settings.DaysPerWeek {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferred_days must list exactly days_per_week weekdays"})
		return
	}
	seen := make(map[int]bool)
	for _, d := range settings.PreferredDays {
		if d < 0 || d > 6 || seen[d] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferred_days must be distinct weekdays 0-6"})
			return
		}
		seen[d] = true
	}
	if settings.PRRepThreshold < 1 {
		settings.PRRepThreshold = 5
	}

	if err := s.db.SaveSettings(r.Context(), &settings); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	info := userInfoFromContext(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      uid,
		"login":        info.Login,
		"display_name": info.DisplayName,
	})
}
