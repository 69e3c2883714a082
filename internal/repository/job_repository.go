package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openhire/jobboard/internal/domain"
)

// PostgresJobRepository implements domain.JobRepository using PostgreSQL
type PostgresJobRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresJobRepository creates a new job repository
func NewPostgresJobRepository(db *sql.DB, logger *slog.Logger) *PostgresJobRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new job
func (r *PostgresJobRepository) Create(job *domain.Job) error {
	query := `
		INSERT INTO jobs (id, title, description, location, salary, level, category, company_id, visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING posted_at
	`

	err := r.db.QueryRow(
		query,
		job.ID,
		job.Title,
		job.Description,
		job.Location,
		job.Salary,
		job.Level,
		job.Category,
		job.CompanyID,
		job.Visible,
	).Scan(&job.PostedAt)

	if err != nil {
		r.logger.Error("failed to create job",
			slog.String("company_id", job.CompanyID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *PostgresJobRepository) GetByID(id string) (*domain.Job, error) {
	job := &domain.Job{}

	query := `
		SELECT id, title, description, location, salary, level, category, company_id, visible, posted_at
		FROM jobs
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Location,
		&job.Salary,
		&job.Level,
		&job.Category,
		&job.CompanyID,
		&job.Visible,
		&job.PostedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

const jobWithCompanyColumns = `
	j.id, j.title, j.description, j.location, j.salary, j.level, j.category,
	j.company_id, j.visible, j.posted_at,
	c.id, c.name, c.email, c.logo_url, c.created_at
`

func scanJobWithCompany(row interface{ Scan(...any) error }) (*domain.JobWithCompany, error) {
	jc := &domain.JobWithCompany{}
	err := row.Scan(
		&jc.ID,
		&jc.Title,
		&jc.Description,
		&jc.Location,
		&jc.Salary,
		&jc.Level,
		&jc.Category,
		&jc.CompanyID,
		&jc.Visible,
		&jc.PostedAt,
		&jc.Company.ID,
		&jc.Company.Name,
		&jc.Company.Email,
		&jc.Company.LogoURL,
		&jc.Company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return jc, nil
}

// ListVisible returns visible jobs joined with company public fields.
// The password hash column is never selected here.
func (r *PostgresJobRepository) ListVisible() ([]*domain.JobWithCompany, error) {
	query := `
		SELECT ` + jobWithCompanyColumns + `
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE j.visible = true
		ORDER BY j.posted_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("failed to list visible jobs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*domain.JobWithCompany{}
	for rows.Next() {
		jc, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, jc)
	}

	return jobs, rows.Err()
}

// GetWithCompany retrieves one job by id with the company join, regardless
// of visibility. Direct-id lookups stay valid for applicants holding links
// to a hidden posting.
func (r *PostgresJobRepository) GetWithCompany(id string) (*domain.JobWithCompany, error) {
	query := `
		SELECT ` + jobWithCompanyColumns + `
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE j.id = $1
	`

	jc, err := scanJobWithCompany(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return jc, nil
}

// ListByCompany lists a company's jobs annotated with applicant counts
func (r *PostgresJobRepository) ListByCompany(companyID string) ([]*domain.JobWithApplicants, error) {
	query := `
		SELECT j.id, j.title, j.description, j.location, j.salary, j.level, j.category,
			j.company_id, j.visible, j.posted_at,
			(SELECT COUNT(*) FROM job_applications a WHERE a.job_id = j.id) AS applicants
		FROM jobs j
		WHERE j.company_id = $1
		ORDER BY j.posted_at DESC
	`

	rows, err := r.db.Query(query, companyID)
	if err != nil {
		r.logger.Error("failed to list jobs by company",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*domain.JobWithApplicants{}
	for rows.Next() {
		ja := &domain.JobWithApplicants{}
		err := rows.Scan(
			&ja.ID,
			&ja.Title,
			&ja.Description,
			&ja.Location,
			&ja.Salary,
			&ja.Level,
			&ja.Category,
			&ja.CompanyID,
			&ja.Visible,
			&ja.PostedAt,
			&ja.Applicants,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, ja)
	}

	return jobs, rows.Err()
}

// SetVisibility persists the visibility flag
func (r *PostgresJobRepository) SetVisibility(id string, visible bool) error {
	result, err := r.db.Exec(`UPDATE jobs SET visible = $1 WHERE id = $2`, visible, id)
	if err != nil {
		return fmt.Errorf("failed to update job visibility: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}
