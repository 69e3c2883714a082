package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openhire/jobboard/internal/domain"
)

func newApplicationService(t *testing.T) (*ApplicationService, *memUserRepo, *memJobRepo, *memAppRepo, *fakeIdentity, *fakeBlobStore) {
	t.Helper()

	companies := newMemCompanyRepo()
	jobs := newMemJobRepo(companies)
	users := newMemUserRepo()
	apps := newMemAppRepo(users, jobs, companies)
	jobs.apps = apps
	identity := newFakeIdentity()
	blobs := &fakeBlobStore{}

	svc := NewApplicationService(users, jobs, apps, identity, blobs, nil)
	return svc, users, jobs, apps, identity, blobs
}

func TestSyncProfile(t *testing.T) {
	svc, users, _, _, identity, _ := newApplicationService(t)
	ctx := context.Background()

	identity.profiles["ext-1"] = &domain.IdentityProfile{
		ID: "ext-1", Name: "Ada Lovelace", Email: "ada@example.com", AvatarURL: "https://img/ada",
	}

	// First sync creates the local profile
	user, err := svc.SyncProfile(ctx, "ext-1")
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if user.ID != "ext-1" || user.Name != "Ada Lovelace" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	// Local-only resume state survives later syncs
	stored := users.byID["ext-1"]
	stored.ResumeURL = "https://cdn/resume.pdf"

	identity.profiles["ext-1"].Name = "Ada King"
	user, err = svc.SyncProfile(ctx, "ext-1")
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if user.Name != "Ada King" {
		t.Fatalf("expected drifted name to be patched, got %s", user.Name)
	}
	if user.ResumeURL != "https://cdn/resume.pdf" {
		t.Fatalf("resume url must not be touched by sync")
	}

	// Unknown at the provider
	if _, err := svc.SyncProfile(ctx, "ext-missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestApply(t *testing.T) {
	svc, _, jobs, _, identity, _ := newApplicationService(t)
	ctx := context.Background()

	identity.profiles["ext-1"] = &domain.IdentityProfile{ID: "ext-1", Name: "Ada", Email: "ada@example.com"}
	jobs.Create(&domain.Job{ID: "job-1", CompanyID: "co-1", Visible: true})

	// Missing job id
	if _, err := svc.Apply(ctx, "ext-1", ""); err == nil {
		t.Fatalf("expected validation error for empty job id")
	}

	// Unknown job
	if _, err := svc.Apply(ctx, "ext-1", "missing"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	app, err := svc.Apply(ctx, "ext-1", "job-1")
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if app.Status != domain.StatusPending {
		t.Fatalf("new applications must start Pending, got %s", app.Status)
	}
	if app.CompanyID != "co-1" {
		t.Fatalf("company must be denormalized from the job")
	}

	// Second application to the same job is a conflict
	if _, err := svc.Apply(ctx, "ext-1", "job-1"); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplyToHiddenJob(t *testing.T) {
	svc, _, jobs, _, identity, _ := newApplicationService(t)
	ctx := context.Background()

	identity.profiles["ext-1"] = &domain.IdentityProfile{ID: "ext-1", Name: "Ada", Email: "ada@example.com"}
	jobs.Create(&domain.Job{ID: "job-1", CompanyID: "co-1", Visible: false})

	// Hidden jobs stay reachable by direct id
	if _, err := svc.Apply(ctx, "ext-1", "job-1"); err != nil {
		t.Fatalf("apply to hidden job failed: %v", err)
	}
}

func TestListMyApplications(t *testing.T) {
	svc, _, jobs, _, identity, _ := newApplicationService(t)
	ctx := context.Background()

	identity.profiles["ext-1"] = &domain.IdentityProfile{ID: "ext-1", Name: "Ada", Email: "ada@example.com"}

	// No applications yet is an empty list, not an error
	list, err := svc.ListMyApplications(ctx, "ext-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty list, got %d", len(list))
	}

	jobs.Create(&domain.Job{ID: "job-1", CompanyID: "co-1", Title: "Go Engineer", Visible: true})
	if _, err := svc.Apply(ctx, "ext-1", "job-1"); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	list, err = svc.ListMyApplications(ctx, "ext-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].Job.Title != "Go Engineer" {
		t.Fatalf("unexpected applications: %+v", list)
	}
}

func TestUpdateResume(t *testing.T) {
	svc, users, _, _, identity, blobs := newApplicationService(t)
	ctx := context.Background()

	identity.profiles["ext-1"] = &domain.IdentityProfile{ID: "ext-1", Name: "Ada", Email: "ada@example.com"}

	if _, err := svc.UpdateResume(ctx, "ext-1", nil); err == nil {
		t.Fatalf("expected validation error for missing file")
	}

	resume := &Upload{Filename: "resume.pdf", ContentType: "application/pdf", Reader: strings.NewReader("pdf-bytes")}
	user, err := svc.UpdateResume(ctx, "ext-1", resume)
	if err != nil {
		t.Fatalf("update resume failed: %v", err)
	}
	if user.ResumeURL == "" {
		t.Fatalf("expected resume url on profile")
	}
	if stored := users.byID["ext-1"]; stored.ResumeURL != user.ResumeURL {
		t.Fatalf("resume url not persisted")
	}

	// Upload failure surfaces and leaves the profile untouched
	blobs.fail = true
	before := users.byID["ext-1"].ResumeURL
	resume = &Upload{Filename: "resume2.pdf", ContentType: "application/pdf", Reader: strings.NewReader("pdf-bytes")}
	_, err = svc.UpdateResume(ctx, "ext-1", resume)
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Status != 502 {
		t.Fatalf("expected 502 on upload failure, got %v", err)
	}
	if users.byID["ext-1"].ResumeURL != before {
		t.Fatalf("profile must keep the previous resume after a failed upload")
	}
}
