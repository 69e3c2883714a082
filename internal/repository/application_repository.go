package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/openhire/jobboard/internal/domain"
)

// PostgresApplicationRepository implements domain.ApplicationRepository using PostgreSQL
type PostgresApplicationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresApplicationRepository creates a new application repository
func NewPostgresApplicationRepository(db *sql.DB, logger *slog.Logger) *PostgresApplicationRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresApplicationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new application. The UNIQUE (job_id, applicant_id)
// constraint closes the check-then-create race: a concurrent duplicate
// apply loses here and surfaces as domain.ErrAlreadyApplied.
func (r *PostgresApplicationRepository) Create(app *domain.JobApplication) error {
	query := `
		INSERT INTO job_applications (id, applicant_id, company_id, job_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING applied_at
	`

	err := r.db.QueryRow(
		query,
		app.ID,
		app.ApplicantID,
		app.CompanyID,
		app.JobID,
		app.Status,
	).Scan(&app.AppliedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrAlreadyApplied
		}
		r.logger.Error("failed to create application",
			slog.String("job_id", app.JobID),
			slog.String("applicant_id", app.ApplicantID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(id string) (*domain.JobApplication, error) {
	app := &domain.JobApplication{}

	query := `
		SELECT id, applicant_id, company_id, job_id, status, applied_at
		FROM job_applications
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&app.ID,
		&app.ApplicantID,
		&app.CompanyID,
		&app.JobID,
		&app.Status,
		&app.AppliedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return app, nil
}

// ListByCompany returns a company's applications joined with applicant
// profile and job summary, newest first.
func (r *PostgresApplicationRepository) ListByCompany(companyID string) ([]*domain.CompanyApplication, error) {
	query := `
		SELECT a.id, a.applicant_id, a.company_id, a.job_id, a.status, a.applied_at,
			u.id, u.name, u.avatar_url, COALESCE(u.resume_url, ''),
			j.id, j.title, j.location, j.category, j.level, j.salary
		FROM job_applications a
		JOIN users u ON u.id = a.applicant_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.company_id = $1
		ORDER BY a.applied_at DESC
	`

	rows, err := r.db.Query(query, companyID)
	if err != nil {
		r.logger.Error("failed to list applications by company",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []*domain.CompanyApplication{}
	for rows.Next() {
		ca := &domain.CompanyApplication{}
		err := rows.Scan(
			&ca.ID,
			&ca.ApplicantID,
			&ca.CompanyID,
			&ca.JobID,
			&ca.Status,
			&ca.AppliedAt,
			&ca.Applicant.ID,
			&ca.Applicant.Name,
			&ca.Applicant.AvatarURL,
			&ca.Applicant.ResumeURL,
			&ca.Job.ID,
			&ca.Job.Title,
			&ca.Job.Location,
			&ca.Job.Category,
			&ca.Job.Level,
			&ca.Job.Salary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, ca)
	}

	return apps, rows.Err()
}

// ListByApplicant returns a seeker's applications joined with company and
// job summaries, newest first. An applicant with no rows gets an empty
// slice, not an error.
func (r *PostgresApplicationRepository) ListByApplicant(applicantID string) ([]*domain.SeekerApplication, error) {
	query := `
		SELECT a.id, a.applicant_id, a.company_id, a.job_id, a.status, a.applied_at,
			c.id, c.name, c.email, c.logo_url,
			j.id, j.title, j.description, j.location, j.category, j.level, j.salary
		FROM job_applications a
		JOIN companies c ON c.id = a.company_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.applicant_id = $1
		ORDER BY a.applied_at DESC
	`

	rows, err := r.db.Query(query, applicantID)
	if err != nil {
		r.logger.Error("failed to list applications by applicant",
			slog.String("applicant_id", applicantID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []*domain.SeekerApplication{}
	for rows.Next() {
		sa := &domain.SeekerApplication{}
		err := rows.Scan(
			&sa.ID,
			&sa.ApplicantID,
			&sa.CompanyID,
			&sa.JobID,
			&sa.Status,
			&sa.AppliedAt,
			&sa.Company.ID,
			&sa.Company.Name,
			&sa.Company.Email,
			&sa.Company.LogoURL,
			&sa.Job.ID,
			&sa.Job.Title,
			&sa.Job.Description,
			&sa.Job.Location,
			&sa.Job.Category,
			&sa.Job.Level,
			&sa.Job.Salary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, sa)
	}

	return apps, rows.Err()
}

// UpdateStatus persists a status value
func (r *PostgresApplicationRepository) UpdateStatus(id, status string) error {
	result, err := r.db.Exec(`UPDATE job_applications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrApplicationNotFound
	}

	return nil
}

// CountByJob counts applications referencing a job
func (r *PostgresApplicationRepository) CountByJob(jobID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM job_applications WHERE job_id = $1`, jobID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}
