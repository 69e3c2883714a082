package service

import (
	"context"
	"log/slog"

	"github.com/openhire/jobboard/internal/domain"
)

// JobService serves the public, unauthenticated job views
type JobService struct {
	jobRepo  domain.JobRepository
	listings ListingCache
	logger   *slog.Logger
}

// NewJobService creates a new job service
func NewJobService(jobRepo domain.JobRepository, listings ListingCache, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}

	return &JobService{
		jobRepo:  jobRepo,
		listings: listings,
		logger:   logger,
	}
}

// ListJobs returns all visible jobs with company details joined in. The
// listing is read through the shared cache; a stale entry lives at most
// one TTL past a toggle on another instance.
func (s *JobService) ListJobs(ctx context.Context) ([]*domain.JobWithCompany, error) {
	if jobs, ok := s.listings.GetJobs(ctx); ok {
		return jobs, nil
	}

	jobs, err := s.jobRepo.ListVisible()
	if err != nil {
		return nil, err
	}

	s.listings.SetJobs(ctx, jobs)
	return jobs, nil
}

// GetJob returns one job by id with the company join. Hidden jobs stay
// fetchable by direct id so links held by existing applicants keep working.
func (s *JobService) GetJob(ctx context.Context, id string) (*domain.JobWithCompany, error) {
	if id == "" {
		return nil, domain.BadRequest("job id is required")
	}
	return s.jobRepo.GetWithCompany(id)
}
