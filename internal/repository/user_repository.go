package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openhire/jobboard/internal/domain"
)

// PostgresUserRepository implements domain.UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *sql.DB, logger *slog.Logger) *PostgresUserRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a cached user profile. The id is the identity provider's
// external identifier, so webhook and lazy creation paths may race; the
// conflict clause makes creation idempotent.
func (r *PostgresUserRepository) Create(user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, avatar_url, resume_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.Name,
		user.Email,
		user.AvatarURL,
		user.ResumeURL,
	)

	if err != nil {
		r.logger.Error("failed to create user",
			slog.String("id", user.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by external identity key
func (r *PostgresUserRepository) GetByID(id string) (*domain.User, error) {
	user := &domain.User{}

	query := `
		SELECT id, name, email, avatar_url, COALESCE(resume_url, ''), created_at, updated_at, synced_at
		FROM users
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.AvatarURL,
		&user.ResumeURL,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.SyncedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update persists profile fields and bumps updated_at and synced_at
func (r *PostgresUserRepository) Update(user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, avatar_url = $3, resume_url = NULLIF($4, ''),
			updated_at = now(), synced_at = now()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		user.Name,
		user.Email,
		user.AvatarURL,
		user.ResumeURL,
		user.ID,
	).Scan(&user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes a user record (provider-originated deletion only)
func (r *PostgresUserRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

// MarkSynced records a no-drift reconciliation with the identity provider
func (r *PostgresUserRepository) MarkSynced(id string) error {
	if _, err := r.db.Exec(`UPDATE users SET synced_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark user synced: %w", err)
	}
	return nil
}

// ListSyncedBefore returns the stalest profiles for the background sync pass
func (r *PostgresUserRepository) ListSyncedBefore(cutoff time.Time, limit int) ([]*domain.User, error) {
	query := `
		SELECT id, name, email, avatar_url, COALESCE(resume_url, ''), created_at, updated_at, synced_at
		FROM users
		WHERE synced_at < $1
		ORDER BY synced_at ASC
		LIMIT $2
	`

	rows, err := r.db.Query(query, cutoff, limit)
	if err != nil {
		r.logger.Error("failed to list stale users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user := &domain.User{}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.AvatarURL,
			&user.ResumeURL,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.SyncedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
