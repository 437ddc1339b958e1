package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/family-budget/internal/api/middleware"
	"github.com/dvloznov/family-budget/internal/jobs"
)

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store   jobs.JobStore
	records RecordStore
	log     zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, records RecordStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{
		store:   store,
		records: records,
		log:     log,
	}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}

// ApplyJob handles POST /api/jobs/{id}/apply: the recognized drafts are
// saved as transactions. A job can be applied once.
func (h *JobsHandler) ApplyJob(w http.ResponseWriter, r *http.Request, jobID string) {
	ctx := r.Context()

	job, err := h.store.MarkApplied(ctx, jobID)
	switch {
	case errors.Is(err, jobs.ErrJobNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	case errors.Is(err, jobs.ErrNotApplicable):
		middleware.WriteError(w, http.StatusConflict, "Job has no drafts to apply")
		return
	case err != nil:
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to apply job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to apply job")
		return
	}

	added, err := h.records.ApplyDrafts(ctx, job.Drafts)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Receipt drafts rejected")
		if releaseErr := h.store.ReleaseApplied(ctx, jobID); releaseErr != nil {
			h.log.Error().Err(releaseErr).Str("job_id", jobID).Msg("Failed to release job")
		}
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"job_id":       jobID,
		"transactions": added,
	})
}
