package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

type memCompanyRepo struct {
	byID    map[string]*domain.Company
	byEmail map[string]*domain.Company
}

func newMemCompanyRepo() *memCompanyRepo {
	return &memCompanyRepo{byID: map[string]*domain.Company{}, byEmail: map[string]*domain.Company{}}
}

func (m *memCompanyRepo) Create(c *domain.Company) error {
	if _, ok := m.byEmail[c.Email]; ok {
		return domain.ErrEmailTaken
	}
	c.CreatedAt = time.Now()
	m.byID[c.ID] = c
	m.byEmail[c.Email] = c
	return nil
}

func (m *memCompanyRepo) GetByID(id string) (*domain.Company, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

func (m *memCompanyRepo) GetByEmail(email string) (*domain.Company, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return nil, domain.ErrCompanyNotFound
}

type memJobRepo struct {
	jobs      map[string]*domain.Job
	companies *memCompanyRepo
	apps      *memAppRepo
}

func newMemJobRepo(companies *memCompanyRepo) *memJobRepo {
	return &memJobRepo{jobs: map[string]*domain.Job{}, companies: companies}
}

func (m *memJobRepo) Create(j *domain.Job) error {
	j.PostedAt = time.Now()
	m.jobs[j.ID] = j
	return nil
}

func (m *memJobRepo) GetByID(id string) (*domain.Job, error) {
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, domain.ErrJobNotFound
}

func (m *memJobRepo) ListVisible() ([]*domain.JobWithCompany, error) {
	out := []*domain.JobWithCompany{}
	for _, j := range m.jobs {
		if !j.Visible {
			continue
		}
		jwc := &domain.JobWithCompany{Job: *j}
		if c, ok := m.companies.byID[j.CompanyID]; ok {
			jwc.Company = *c
		}
		out = append(out, jwc)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].PostedAt.After(out[k].PostedAt) })
	return out, nil
}

func (m *memJobRepo) GetWithCompany(id string) (*domain.JobWithCompany, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	jwc := &domain.JobWithCompany{Job: *j}
	if c, ok := m.companies.byID[j.CompanyID]; ok {
		jwc.Company = *c
	}
	return jwc, nil
}

func (m *memJobRepo) ListByCompany(companyID string) ([]*domain.JobWithApplicants, error) {
	out := []*domain.JobWithApplicants{}
	for _, j := range m.jobs {
		if j.CompanyID != companyID {
			continue
		}
		count := 0
		if m.apps != nil {
			count, _ = m.apps.CountByJob(j.ID)
		}
		out = append(out, &domain.JobWithApplicants{Job: *j, Applicants: count})
	}
	return out, nil
}

func (m *memJobRepo) SetVisibility(id string, visible bool) error {
	j, ok := m.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	j.Visible = visible
	return nil
}

type memAppRepo struct {
	apps      map[string]*domain.JobApplication
	users     *memUserRepo
	jobs      *memJobRepo
	companies *memCompanyRepo
}

func newMemAppRepo(users *memUserRepo, jobs *memJobRepo, companies *memCompanyRepo) *memAppRepo {
	return &memAppRepo{apps: map[string]*domain.JobApplication{}, users: users, jobs: jobs, companies: companies}
}

func (m *memAppRepo) Create(a *domain.JobApplication) error {
	for _, existing := range m.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return domain.ErrAlreadyApplied
		}
	}
	a.AppliedAt = time.Now()
	m.apps[a.ID] = a
	return nil
}

func (m *memAppRepo) GetByID(id string) (*domain.JobApplication, error) {
	if a, ok := m.apps[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrApplicationNotFound
}

func (m *memAppRepo) ListByCompany(companyID string) ([]*domain.CompanyApplication, error) {
	out := []*domain.CompanyApplication{}
	for _, a := range m.apps {
		if a.CompanyID != companyID {
			continue
		}
		ca := &domain.CompanyApplication{JobApplication: *a}
		if u, ok := m.users.byID[a.ApplicantID]; ok {
			ca.Applicant = domain.ApplicantSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL, ResumeURL: u.ResumeURL}
		}
		if j, ok := m.jobs.jobs[a.JobID]; ok {
			ca.Job = domain.JobSummary{ID: j.ID, Title: j.Title, Location: j.Location, Category: j.Category, Level: j.Level, Salary: j.Salary}
		}
		out = append(out, ca)
	}
	return out, nil
}

func (m *memAppRepo) ListByApplicant(applicantID string) ([]*domain.SeekerApplication, error) {
	out := []*domain.SeekerApplication{}
	for _, a := range m.apps {
		if a.ApplicantID != applicantID {
			continue
		}
		sa := &domain.SeekerApplication{JobApplication: *a}
		if c, ok := m.companies.byID[a.CompanyID]; ok {
			sa.Company = domain.CompanySummary{ID: c.ID, Name: c.Name, Email: c.Email, LogoURL: c.LogoURL}
		}
		if j, ok := m.jobs.jobs[a.JobID]; ok {
			sa.Job = domain.JobSummary{ID: j.ID, Title: j.Title, Location: j.Location, Category: j.Category, Level: j.Level, Salary: j.Salary}
		}
		out = append(out, sa)
	}
	return out, nil
}

func (m *memAppRepo) UpdateStatus(id, status string) error {
	a, ok := m.apps[id]
	if !ok {
		return domain.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (m *memAppRepo) CountByJob(jobID string) (int, error) {
	count := 0
	for _, a := range m.apps {
		if a.JobID == jobID {
			count++
		}
	}
	return count, nil
}

type memUserRepo struct {
	byID map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}}
}

// Create mirrors the insert-if-absent semantics of the real store.
func (m *memUserRepo) Create(u *domain.User) error {
	if _, ok := m.byID[u.ID]; ok {
		return nil
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	u.SyncedAt = u.CreatedAt
	m.byID[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUserRepo) Update(u *domain.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	u.UpdatedAt = time.Now()
	u.SyncedAt = u.UpdatedAt
	copied := *u
	m.byID[u.ID] = &copied
	return nil
}

func (m *memUserRepo) Delete(id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUserRepo) MarkSynced(id string) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SyncedAt = time.Now()
	return nil
}

func (m *memUserRepo) ListSyncedBefore(cutoff time.Time, limit int) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byID {
		if u.SyncedAt.Before(cutoff) {
			copied := *u
			out = append(out, &copied)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeIdentity struct {
	tokens   map[string]string // token -> external id
	profiles map[string]*domain.IdentityProfile
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{tokens: map[string]string{}, profiles: map[string]*domain.IdentityProfile{}}
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, token string) (string, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return "", domain.Unauthorized("invalid identity token")
}

func (f *fakeIdentity) FetchUser(ctx context.Context, externalID string) (*domain.IdentityProfile, error) {
	if p, ok := f.profiles[externalID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

type fakeBlobStore struct {
	uploads int
	fail    bool
}

func (f *fakeBlobStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if f.fail {
		return "", domain.BadGateway("upload service unavailable")
	}
	io.Copy(io.Discard, body)
	f.uploads++
	return fmt.Sprintf("https://cdn.example.com/%s", filename), nil
}

type memListingCache struct {
	jobs          []*domain.JobWithCompany
	cached        bool
	invalidations int
}

func (c *memListingCache) GetJobs(ctx context.Context) ([]*domain.JobWithCompany, bool) {
	if !c.cached {
		return nil, false
	}
	return c.jobs, true
}

func (c *memListingCache) SetJobs(ctx context.Context, jobs []*domain.JobWithCompany) {
	c.jobs = jobs
	c.cached = true
}

func (c *memListingCache) Invalidate(ctx context.Context) {
	c.jobs = nil
	c.cached = false
	c.invalidations++
}
