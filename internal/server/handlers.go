package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meltforce/repcycle/internal/schedule"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses. Anything unrecognized
// is a 500 and the detail stays in the log, not the response.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, schedule.ErrConfiguration):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, schedule.ErrScheduleConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidTransition):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.log.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// parseDateRange reads from/to query params, defaulting to the current week
// through four weeks out.
func parseDateRange(r *http.Request) (from, to time.Time, err error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")

	if fromStr == "" {
		now := time.Now().UTC()
		from = now.AddDate(0, 0, -int(now.Weekday()))
		to = from.AddDate(0, 0, 28)
		return from, to, nil
	}
	from, err = parseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if toStr == "" {
		to = from.AddDate(0, 0, 28)
		return from, to, nil
	}
	to, err = parseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// toWeekdays converts stored weekday ints to time.Weekday for the engine.
func toWeekdays(days []int) []time.Weekday {
	out := make([]time.Weekday, len(days))
	for i, d := range days {
		out[i] = time.Weekday(d)
	}
	return out
}
