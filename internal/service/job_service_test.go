package service

import (
	"context"
	"errors"
	"testing"

	"github.com/openhire/jobboard/internal/domain"
)

func newJobService(t *testing.T) (*JobService, *memCompanyRepo, *memJobRepo, *memListingCache) {
	t.Helper()
	companies := newMemCompanyRepo()
	jobs := newMemJobRepo(companies)
	listings := &memListingCache{}
	return NewJobService(jobs, listings, nil), companies, jobs, listings
}

func TestListJobsFiltersHidden(t *testing.T) {
	svc, companies, jobs, _ := newJobService(t)
	ctx := context.Background()

	companies.Create(&domain.Company{ID: "co-1", Name: "Acme", Email: "hr@acme.dev"})
	jobs.Create(&domain.Job{ID: "job-1", Title: "Visible", CompanyID: "co-1", Visible: true})
	jobs.Create(&domain.Job{ID: "job-2", Title: "Hidden", CompanyID: "co-1", Visible: false})

	list, err := svc.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "job-1" {
		t.Fatalf("expected only the visible job, got %+v", list)
	}
	if list[0].Company.Name != "Acme" {
		t.Fatalf("expected company join on listing")
	}
}

func TestListJobsReadsThroughCache(t *testing.T) {
	svc, _, jobs, listings := newJobService(t)
	ctx := context.Background()

	jobs.Create(&domain.Job{ID: "job-1", Title: "First", Visible: true})

	if _, err := svc.ListJobs(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !listings.cached {
		t.Fatalf("miss must populate the cache")
	}

	// A second call is served from the cache even after the store changes
	jobs.Create(&domain.Job{ID: "job-2", Title: "Second", Visible: true})
	list, err := svc.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected cached listing of one job, got %d", len(list))
	}

	// After invalidation the fresh listing is returned
	listings.Invalidate(ctx)
	list, err = svc.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two jobs after invalidation, got %d", len(list))
	}
}

func TestGetJob(t *testing.T) {
	svc, companies, jobs, _ := newJobService(t)
	ctx := context.Background()

	companies.Create(&domain.Company{ID: "co-1", Name: "Acme", Email: "hr@acme.dev"})
	jobs.Create(&domain.Job{ID: "job-1", Title: "Go Engineer", CompanyID: "co-1", Visible: false})

	if _, err := svc.GetJob(ctx, ""); err == nil {
		t.Fatalf("expected validation error for empty id")
	}
	if _, err := svc.GetJob(ctx, "missing"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	// Hidden jobs remain fetchable by direct id
	job, err := svc.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.Title != "Go Engineer" || job.Company.Name != "Acme" {
		t.Fatalf("unexpected job: %+v", job)
	}
}
