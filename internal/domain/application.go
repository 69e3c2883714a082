package domain

import "time"

// Application review statuses. Transitions only go Pending -> terminal.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// ValidStatus reports whether s is one of the allowed enumeration values.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// JobApplication links a job seeker to a job. CompanyID is denormalized
// from the job at creation time; job ownership never changes, so the copy
// is never re-synchronized.
type JobApplication struct {
	ID          string    `json:"id"`
	ApplicantID string    `json:"applicantId"`
	CompanyID   string    `json:"companyId"`
	JobID       string    `json:"jobId"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"appliedAt"`
}

// ApplicantSummary is what a reviewing company sees about an applicant.
type ApplicantSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	ResumeURL string `json:"resumeUrl,omitempty"`
}

// JobSummary is the job slice joined into application listings.
type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Salary      int64  `json:"salary"`
}

// CompanySummary is the company slice joined into application listings.
type CompanySummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// CompanyApplication is an application as seen by the reviewing company.
type CompanyApplication struct {
	JobApplication
	Applicant ApplicantSummary `json:"applicant"`
	Job       JobSummary       `json:"job"`
}

// SeekerApplication is an application as seen by the job seeker.
type SeekerApplication struct {
	JobApplication
	Company CompanySummary `json:"company"`
	Job     JobSummary     `json:"job"`
}

// ApplicationRepository defines data access for job applications.
// Create must enforce uniqueness of (JobID, ApplicantID) at the storage
// layer and return ErrAlreadyApplied on violation.
type ApplicationRepository interface {
	Create(app *JobApplication) error
	GetByID(id string) (*JobApplication, error)
	ListByCompany(companyID string) ([]*CompanyApplication, error)
	ListByApplicant(applicantID string) ([]*SeekerApplication, error)
	UpdateStatus(id, status string) error
	CountByJob(jobID string) (int, error)
}
