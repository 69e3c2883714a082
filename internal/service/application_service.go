package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/observability/metrics"
)

// ApplicationService handles the job-seeker flows. Every operation starts
// with a profile sync against the identity provider, so the local User
// cache never drifts far from the provider's view.
type ApplicationService struct {
	userRepo domain.UserRepository
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
	identity domain.IdentityProvider
	blobs    domain.BlobStore
	logger   *slog.Logger
}

// NewApplicationService creates a new application service
func NewApplicationService(
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	identity domain.IdentityProvider,
	blobs domain.BlobStore,
	logger *slog.Logger,
) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ApplicationService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		appRepo:  appRepo,
		identity: identity,
		blobs:    blobs,
		logger:   logger,
	}
}

// SyncProfile resolves the provider profile for an external id and upserts
// the local cache. Name, email and avatar are patched on drift; the resume
// URL is local-only state and is never touched here.
func (s *ApplicationService) SyncProfile(ctx context.Context, externalID string) (*domain.User, error) {
	profile, err := s.identity.FetchUser(ctx, externalID)
	if err != nil {
		metrics.ObserveProfileSync("request", "error")
		return nil, err
	}

	user, err := s.userRepo.GetByID(externalID)
	if errors.Is(err, domain.ErrUserNotFound) {
		created := &domain.User{
			ID:        profile.ID,
			Name:      profile.Name,
			Email:     profile.Email,
			AvatarURL: profile.AvatarURL,
		}
		if err := s.userRepo.Create(created); err != nil {
			return nil, err
		}
		metrics.ObserveProfileSync("request", "created")
		s.logger.Info("user profile created", slog.String("user_id", profile.ID))
		// Re-read to pick up store-assigned timestamps, and to converge
		// when a concurrent webhook won the insert.
		return s.userRepo.GetByID(externalID)
	}
	if err != nil {
		return nil, err
	}

	if user.Name != profile.Name || user.Email != profile.Email || user.AvatarURL != profile.AvatarURL {
		user.Name = profile.Name
		user.Email = profile.Email
		user.AvatarURL = profile.AvatarURL
		if err := s.userRepo.Update(user); err != nil {
			return nil, err
		}
		metrics.ObserveProfileSync("request", "updated")
		s.logger.Info("user profile updated from provider", slog.String("user_id", user.ID))
		return user, nil
	}

	if err := s.userRepo.MarkSynced(user.ID); err != nil {
		s.logger.Warn("failed to mark profile synced",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	metrics.ObserveProfileSync("request", "unchanged")
	return user, nil
}

// Apply creates a Pending application for the caller on a job. The company
// reference is denormalized from the job at creation time.
func (s *ApplicationService) Apply(ctx context.Context, externalID, jobID string) (*domain.JobApplication, error) {
	if jobID == "" {
		return nil, domain.BadRequest("jobId is required")
	}

	user, err := s.SyncProfile(ctx, externalID)
	if err != nil {
		return nil, err
	}

	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		metrics.ObserveApplication("job_not_found")
		return nil, err
	}

	app := &domain.JobApplication{
		ID:          uuid.NewString(),
		ApplicantID: user.ID,
		CompanyID:   job.CompanyID,
		JobID:       job.ID,
		Status:      domain.StatusPending,
	}

	if err := s.appRepo.Create(app); err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			metrics.ObserveApplication("duplicate")
		} else {
			metrics.ObserveApplication("error")
		}
		return nil, err
	}

	metrics.ObserveApplication("success")
	s.logger.Info("application created",
		slog.String("application_id", app.ID),
		slog.String("job_id", job.ID),
		slog.String("applicant_id", user.ID),
	)

	return app, nil
}

// ListMyApplications returns the caller's applications with company and
// job summaries. No applications is an empty list, not an error.
func (s *ApplicationService) ListMyApplications(ctx context.Context, externalID string) ([]*domain.SeekerApplication, error) {
	user, err := s.SyncProfile(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.appRepo.ListByApplicant(user.ID)
}

// UpdateResume streams a resume blob to object storage and persists the
// returned URL on the caller's profile.
func (s *ApplicationService) UpdateResume(ctx context.Context, externalID string, resume *Upload) (*domain.User, error) {
	if resume == nil {
		return nil, domain.BadRequest("resume file is required")
	}

	user, err := s.SyncProfile(ctx, externalID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	url, err := s.blobs.Upload(ctx, resume.Filename, resume.ContentType, resume.Reader)
	if err != nil {
		metrics.ObserveUpload("resume", "error", time.Since(start))
		return nil, err
	}
	metrics.ObserveUpload("resume", "success", time.Since(start))

	user.ResumeURL = url
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	s.logger.Info("resume updated", slog.String("user_id", user.ID))
	return user, nil
}
