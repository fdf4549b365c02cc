package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"skywatch/tracker/internal/jobs"
	"skywatch/tracker/internal/models/dtos"
	"skywatch/tracker/internal/services"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	ingest *services.IngestService
	jobs   *jobs.JobSet
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(ingest *services.IngestService, jobSet *jobs.JobSet) *JobsHandler {
	return &JobsHandler{ingest: ingest, jobs: jobSet}
}

// TriggerRefresh handles POST /api/v1/refresh. An upstream failure comes
// back as a 200 with success=false and the message, so callers polling the
// endpoint can tell "fetch failed" from "endpoint broken".
func (h *JobsHandler) TriggerRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()
		log.Printf("[JobsHandler] Refresh manually triggered")

		result, err := h.ingest.RunCycle(r.Context())
		if err != nil {
			respondWithSuccess(w, http.StatusOK, init, &dtos.RefreshResult{
				Success: false,
				Errors:  []string{err.Error()},
			})
			return
		}

		respondWithSuccess(w, http.StatusOK, init, &dtos.RefreshResult{
			Success:          true,
			FlightsUpdated:   result.FlightsUpdated,
			PositionsCreated: result.PositionsCreated,
			Errors:           []string{},
		})
	}
}

type triggerStatisticsRequest struct {
	Date string `json:"date,omitempty"` // YYYY-MM-DD, defaults to yesterday
}

// TriggerStatistics handles POST /api/v1/jobs/statistics
func (h *JobsHandler) TriggerStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()

		var req triggerStatisticsRequest
		if r.Body != nil {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				respondWithError(w, http.StatusBadRequest, init, "Invalid request body")
				return
			}
		}
		if q := r.URL.Query().Get("date"); q != "" {
			req.Date = q
		}

		date := time.Now().UTC().AddDate(0, 0, -1)
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, init, "Invalid date: must be YYYY-MM-DD")
				return
			}
			date = parsed
		}

		log.Printf("[JobsHandler] Statistics rollup manually triggered for %s", date.Format("2006-01-02"))
		if err := h.jobs.Statistics.RunForDate(r.Context(), date); err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to generate statistics: "+err.Error())
			return
		}

		respondWithSuccess(w, http.StatusOK, init, map[string]string{
			"date": date.Format("2006-01-02"),
		})
	}
}

// TriggerRetention handles POST /api/v1/jobs/retention
func (h *JobsHandler) TriggerRetention() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		init := time.Now()
		log.Printf("[JobsHandler] Retention sweep manually triggered")

		if err := h.jobs.Retention.Run(r.Context()); err != nil {
			respondWithError(w, http.StatusInternalServerError, init, "Failed to run retention sweep: "+err.Error())
			return
		}
		respondWithSuccess(w, http.StatusOK, init, map[string]string{
			"status": "completed",
		})
	}
}
