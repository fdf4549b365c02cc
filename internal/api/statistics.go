package api

import (
	"net/http"
	"time"

	"skywatch/tracker/internal/services"
)

// StatisticsHandler handles GET /api/v1/statistics. Defaults to the last
// seven days when no range is given.
func StatisticsHandler(statsSvc *services.StatisticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()

		to := time.Now().UTC()
		from := to.AddDate(0, 0, -7)

		if raw := r.URL.Query().Get("start_date"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, init, "Invalid start_date: must be YYYY-MM-DD")
				return
			}
			from = t
		}
		if raw := r.URL.Query().Get("end_date"); raw != "" {
			t, err := time.Parse("2006-01-02", raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, init, "Invalid end_date: must be YYYY-MM-DD")
				return
			}
			to = t
		}
		if to.Before(from) {
			respondWithError(w, http.StatusBadRequest, init, "Invalid range: end_date is before start_date")
			return
		}

		stats, err := statsSvc.Range(r.Context(), from, to)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to load statistics")
			return
		}
		respondWithSuccess(w, http.StatusOK, init, stats)
	}
}
