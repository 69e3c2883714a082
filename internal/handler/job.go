package handler

import (
	"log/slog"
	"net/http"

	"github.com/openhire/jobboard/internal/httpapi"
	"github.com/openhire/jobboard/internal/service"
)

// JobHandler serves the public job views
type JobHandler struct {
	jobService *service.JobService
	logger     *slog.Logger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService, logger *slog.Logger) *JobHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

// List handles GET /jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobService.ListJobs(r.Context())
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"jobs": jobs}, "visible jobs")
}

// Get handles GET /jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobService.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"job": job}, "job found")
}
