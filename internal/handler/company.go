package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/httpapi"
	"github.com/openhire/jobboard/internal/security/middleware"
	"github.com/openhire/jobboard/internal/service"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// CompanyHandler handles the recruiter-side endpoints
type CompanyHandler struct {
	companyService *service.CompanyService
	logger         *slog.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// Register handles POST /company/register. The body is multipart form data
// with name, email, password fields and an optional logo file; plain JSON
// is accepted when no logo is attached.
func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var name, email, password string
	var logo *service.Upload

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			httpapi.Error(w, h.logger, domain.BadRequest("invalid multipart form"))
			return
		}
		name = r.FormValue("name")
		email = r.FormValue("email")
		password = r.FormValue("password")

		if file, header, err := r.FormFile("logo"); err == nil {
			defer file.Close()
			logo = &service.Upload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Reader:      file,
			}
		}
	} else {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
			return
		}
		name, email, password = req.Name, req.Email, req.Password
	}

	company, token, err := h.companyService.Register(r.Context(), name, email, password, logo)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusCreated, map[string]any{
		"company": company,
		"token":   token,
	}, "company registered")
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /company/login
func (h *CompanyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
		return
	}

	company, token, err := h.companyService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{
		"company": company,
		"token":   token,
	}, "login successful")
}

// Profile handles GET /company/company
func (h *CompanyHandler) Profile(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"company": company}, "company profile")
}

type postJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Salary      int64  `json:"salary"`
	Level       string `json:"level"`
	Category    string `json:"category"`
}

// PostJob handles POST /company/post-job
func (h *CompanyHandler) PostJob(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	var req postJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
		return
	}

	job, err := h.companyService.PostJob(r.Context(), company.ID, service.PostJobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Salary:      req.Salary,
		Level:       req.Level,
		Category:    req.Category,
	})
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusCreated, map[string]any{"job": job}, "job created")
}

// ListJobs handles GET /company/list-jobs
func (h *CompanyHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	jobs, err := h.companyService.ListPostedJobs(r.Context(), company.ID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"jobs": jobs}, "posted jobs")
}

// Applicants handles GET /company/applicants
func (h *CompanyHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	applications, err := h.companyService.ListApplicants(r.Context(), company.ID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"applications": applications}, "applicants")
}

type changeStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ChangeStatus handles POST /company/change-status
func (h *CompanyHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
		return
	}
	if req.ID == "" {
		httpapi.Error(w, h.logger, domain.BadRequest("application id is required"))
		return
	}

	application, err := h.companyService.ChangeStatus(r.Context(), company.ID, req.ID, req.Status)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"application": application}, "status changed")
}

type changeVisibilityRequest struct {
	ID string `json:"id"`
}

// ChangeVisibility handles POST /company/change-visiblity
func (h *CompanyHandler) ChangeVisibility(w http.ResponseWriter, r *http.Request) {
	company := middleware.CompanyFromContext(r.Context())
	if company == nil {
		httpapi.Error(w, h.logger, domain.Unauthorized("not authenticated"))
		return
	}

	var req changeVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.Error(w, h.logger, domain.BadRequest("invalid request body"))
		return
	}
	if req.ID == "" {
		httpapi.Error(w, h.logger, domain.BadRequest("job id is required"))
		return
	}

	job, err := h.companyService.ChangeVisibility(r.Context(), company.ID, req.ID)
	if err != nil {
		httpapi.Error(w, h.logger, err)
		return
	}

	httpapi.Respond(w, http.StatusOK, map[string]any{"job": job}, "visibility changed")
}
