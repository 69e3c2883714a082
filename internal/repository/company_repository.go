package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/openhire/jobboard/internal/domain"
)

// PostgresCompanyRepository implements domain.CompanyRepository using PostgreSQL
type PostgresCompanyRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCompanyRepository creates a new company repository
func NewPostgresCompanyRepository(db *sql.DB, logger *slog.Logger) *PostgresCompanyRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCompanyRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new company. The unique index on email maps to
// domain.ErrEmailTaken so registration races resolve at the store.
func (r *PostgresCompanyRepository) Create(company *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, email, password_hash, logo_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		query,
		company.ID,
		company.Name,
		company.Email,
		company.PasswordHash,
		company.LogoURL,
	).Scan(&company.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrEmailTaken
		}
		r.logger.Error("failed to create company",
			slog.String("email", company.Email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by ID
func (r *PostgresCompanyRepository) GetByID(id string) (*domain.Company, error) {
	company := &domain.Company{}

	query := `
		SELECT id, name, email, password_hash, logo_url, created_at
		FROM companies
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.PasswordHash,
		&company.LogoURL,
		&company.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		r.logger.Error("failed to get company by id",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return company, nil
}

// GetByEmail retrieves a company by email
func (r *PostgresCompanyRepository) GetByEmail(email string) (*domain.Company, error) {
	company := &domain.Company{}

	query := `
		SELECT id, name, email, password_hash, logo_url, created_at
		FROM companies
		WHERE email = $1
	`

	err := r.db.QueryRow(query, email).Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.PasswordHash,
		&company.LogoURL,
		&company.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company by email: %w", err)
	}

	return company, nil
}
