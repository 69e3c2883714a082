package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/httpapi"
	"github.com/openhire/jobboard/internal/security/middleware"
	"github.com/openhire/jobboard/internal/service"
)

// UserHandler handles the job-seeker endpoints
type UserHandler struct {
	appService *service.ApplicationService
	logger     *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(appService *service.ApplicationService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserHandler{
		appService: appService,
		logger:     logger,
	}
}

// Profile handles GET /users/user
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	seekerID := middleware.SeekerFromContext(r.Context())
	if seekerID == "" {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	user, err := h.appService.SyncProfile(r.Context(), seekerID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"user": user}, "user profile")
}

type applyRequest struct {
	JobID string `json:"jobId"`
}

// Apply handles POST /users/apply
func (h *UserHandler) Apply(w http.ResponseWriter, r *http.Request) {
	seekerID := middleware.SeekerFromContext(r.Context())
	if seekerID == "" {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
		return
	}

	application, err := h.appService.Apply(r.Context(), seekerID, req.JobID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusCreated, map[string]any{"application": application}, "applied successfully")
}

// Applications handles GET /users/applications
func (h *UserHandler) Applications(w http.ResponseWriter, r *http.Request) {
	seekerID := middleware.SeekerFromContext(r.Context())
	if seekerID == "" {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	applications, err := h.appService.ListMyApplications(r.Context(), seekerID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"applications": applications}, "applications")
}

// UpdateResume handles POST /users/update-resume. The resume arrives as a
// multipart file and is streamed to object storage.
func (h *UserHandler) UpdateResume(w http.ResponseWriter, r *http.Request) {
	seekerID := middleware.SeekerFromContext(r.Context())
	if seekerID == "" {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("resume file is required"))
		return
	}
	defer file.Close()

	user, err := h.appService.UpdateResume(r.Context(), seekerID, &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"user": user}, "resume updated")
}
