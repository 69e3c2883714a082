package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/observability/metrics"
	"github.com/openhire/jobboard/internal/security/audit"
	"github.com/openhire/jobboard/internal/security/auth"
	"golang.org/x/crypto/bcrypt"
)

// Upload is a binary blob streamed from a request body
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// ListingCache caches the public job listing across requests. Writers on
// the company side invalidate it; the public job service reads through it.
type ListingCache interface {
	GetJobs(ctx context.Context) ([]*domain.JobWithCompany, bool)
	SetJobs(ctx context.Context, jobs []*domain.JobWithCompany)
	Invalidate(ctx context.Context)
}

// CompanyService handles the recruiter-side operations: registration,
// login, job posting and applicant review. Everything is scoped to the
// authenticated company.
type CompanyService struct {
	companyRepo domain.CompanyRepository
	jobRepo     domain.JobRepository
	appRepo     domain.ApplicationRepository
	tokens      *auth.TokenManager
	blobs       domain.BlobStore
	listings    ListingCache
	auditLog    *audit.Logger
	logger      *slog.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	companyRepo domain.CompanyRepository,
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	tokens *auth.TokenManager,
	blobs domain.BlobStore,
	listings ListingCache,
	auditLog *audit.Logger,
	logger *slog.Logger,
) *CompanyService {
	if logger == nil {
		logger = slog.Default()
	}

	return &CompanyService{
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		tokens:      tokens,
		blobs:       blobs,
		listings:    listings,
		auditLog:    auditLog,
		logger:      logger,
	}
}

// Register creates a company account and issues a session token. The logo
// is optional, but when one is supplied a failed upload fails the whole
// registration; an account is never created with a silently dropped logo.
func (s *CompanyService) Register(ctx context.Context, name, email, password string, logo *Upload) (*domain.Company, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", domain.BadRequest("name, email and password are required")
	}
	if len(password) < 8 {
		return nil, "", domain.BadRequest("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, "", err
	}

	logoURL := ""
	if logo != nil {
		start := time.Now()
		logoURL, err = s.blobs.Upload(ctx, logo.Filename, logo.ContentType, logo.Reader)
		if err != nil {
			metrics.ObserveUpload("logo", "error", time.Since(start))
			return nil, "", err
		}
		metrics.ObserveUpload("logo", "success", time.Since(start))
	}

	company := &domain.Company{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		LogoURL:      logoURL,
	}

	if err := s.companyRepo.Create(company); err != nil {
		metrics.ObserveRegistration("error")
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(company.ID, company.Email)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, "", err
	}

	metrics.ObserveRegistration("success")
	s.auditLog.LogRegistration(ctx, company.ID, "created")
	s.logger.Info("company registered",
		slog.String("company_id", company.ID),
		slog.String("email", company.Email),
	)

	return company, token, nil
}

// Login authenticates a company and issues a fresh session token
func (s *CompanyService) Login(ctx context.Context, email, password string) (*domain.Company, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.BadRequest("email and password are required")
	}

	company, err := s.companyRepo.GetByEmail(email)
	if err != nil {
		s.logger.Info("login attempt with unknown email", slog.String("email", email))
		metrics.ObserveLogin("unknown_email")
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("login failed with wrong password", slog.String("email", email))
		metrics.ObserveLogin("bad_password")
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(company.ID, company.Email)
	if err != nil {
		s.logger.Error("failed to sign token", slog.String("error", err.Error()))
		return nil, "", err
	}

	metrics.ObserveLogin("success")
	s.auditLog.LogLogin(ctx, company.ID, "success")

	return company, token, nil
}

// PostJobInput captures a new job posting
type PostJobInput struct {
	Title       string
	Description string
	Location    string
	Salary      int64
	Level       string
	Category    string
}

// PostJob creates a job owned by the company, visible by default
func (s *CompanyService) PostJob(ctx context.Context, companyID string, input PostJobInput) (*domain.Job, error) {
	if input.Title == "" || input.Description == "" || input.Location == "" ||
		input.Level == "" || input.Category == "" {
		return nil, domain.BadRequest("title, description, location, level and category are required")
	}
	if input.Salary <= 0 {
		return nil, domain.BadRequest("salary must be positive")
	}

	job := &domain.Job{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Salary:      input.Salary,
		Level:       input.Level,
		Category:    input.Category,
		CompanyID:   companyID,
		Visible:     true,
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}

	s.listings.Invalidate(ctx)
	metrics.ObserveJobPosted()
	s.auditLog.LogJobPosted(ctx, companyID, job.ID)
	s.logger.Info("job posted",
		slog.String("company_id", companyID),
		slog.String("job_id", job.ID),
		slog.String("title", job.Title),
	)

	return job, nil
}

// ListPostedJobs returns the company's jobs with applicant counts
func (s *CompanyService) ListPostedJobs(ctx context.Context, companyID string) ([]*domain.JobWithApplicants, error) {
	return s.jobRepo.ListByCompany(companyID)
}

// ListApplicants returns applications for the company's jobs joined with
// applicant profiles and job summaries
func (s *CompanyService) ListApplicants(ctx context.Context, companyID string) ([]*domain.CompanyApplication, error) {
	return s.appRepo.ListByCompany(companyID)
}

// ChangeStatus moves an application from Pending to a review outcome. Only
// the owning company may do this, and a terminal status is final.
func (s *CompanyService) ChangeStatus(ctx context.Context, companyID, applicationID, status string) (*domain.JobApplication, error) {
	if !domain.ValidStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	app, err := s.appRepo.GetByID(applicationID)
	if err != nil {
		return nil, err
	}

	if app.CompanyID != companyID {
		s.auditLog.LogStatusChange(ctx, companyID, applicationID, "forbidden")
		return nil, domain.ErrNotApplicationOwner
	}

	if app.Status != domain.StatusPending && app.Status != status {
		return nil, domain.ErrAlreadyReviewed
	}

	if err := s.appRepo.UpdateStatus(applicationID, status); err != nil {
		return nil, err
	}

	app.Status = status
	s.auditLog.LogStatusChange(ctx, companyID, applicationID, status)
	s.logger.Info("application status changed",
		slog.String("company_id", companyID),
		slog.String("application_id", applicationID),
		slog.String("status", status),
	)

	return app, nil
}

// ChangeVisibility toggles a job's public visibility. Only the owning
// company may flip it; last write wins on a concurrent toggle.
func (s *CompanyService) ChangeVisibility(ctx context.Context, companyID, jobID string) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}

	if job.CompanyID != companyID {
		s.auditLog.LogVisibilityToggle(ctx, companyID, jobID, "forbidden")
		return nil, domain.ErrNotJobOwner
	}

	job.Visible = !job.Visible
	if err := s.jobRepo.SetVisibility(jobID, job.Visible); err != nil {
		return nil, err
	}

	s.listings.Invalidate(ctx)
	s.auditLog.LogVisibilityToggle(ctx, companyID, jobID, visibilityLabel(job.Visible))

	return job, nil
}

func visibilityLabel(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}
