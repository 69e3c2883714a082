package domain

import "time"

// Company is a recruiter-side account that owns job postings.
type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	LogoURL      string    `json:"logoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CompanyRepository defines data access for companies
type CompanyRepository interface {
	Create(company *Company) error
	GetByID(id string) (*Company, error)
	GetByEmail(email string) (*Company, error)
}
