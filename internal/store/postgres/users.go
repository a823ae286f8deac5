package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *UserStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const userColumns = `id, username, email, password_hash, created_at`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.conn().QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.getBy(ctx, "id", id)
}

// GetByUsername retrieves a user by username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getBy(ctx, "username", username)
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email", email)
}

// getBy is only called with fixed column names.
func (s *UserStore) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(s.conn().QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying user by %s: %w", column, err)
	}
	return user, nil
}

// Update updates an existing user's credentials and profile.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3
		WHERE id = $4`

	res, err := s.conn().ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.ID)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("updating user: %w", err)
	}
	return requireAffected(res, "user")
}

// Delete removes a user. Owned rows go with it through ON DELETE CASCADE and
// received invites keep their row with invitee_id cleared.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn().ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireAffected(res, "user")
}
