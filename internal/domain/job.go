package domain

import "time"

// Job is a posting owned by a company. Ownership is immutable after
// creation; the only mutation in scope is the visibility toggle.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Salary      int64     `json:"salary"`
	Level       string    `json:"level"`
	Category    string    `json:"category"`
	CompanyID   string    `json:"companyId"`
	Visible     bool      `json:"visible"`
	PostedAt    time.Time `json:"postedAt"`
}

// JobWithCompany is a job joined with its owning company's public fields.
type JobWithCompany struct {
	Job
	Company Company `json:"company"`
}

// JobWithApplicants is a job annotated with its current applicant count.
type JobWithApplicants struct {
	Job
	Applicants int `json:"applicants"`
}

// JobRepository defines data access for jobs
type JobRepository interface {
	Create(job *Job) error
	GetByID(id string) (*Job, error)
	// ListVisible returns visible jobs joined with company public fields.
	ListVisible() ([]*JobWithCompany, error)
	GetWithCompany(id string) (*JobWithCompany, error)
	ListByCompany(companyID string) ([]*JobWithApplicants, error)
	SetVisibility(id string, visible bool) error
}
