package planner

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// RegisterInput holds the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileUpdate holds optional profile changes.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 80 {
		return invalid("username", "username must be between 3 and 80 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" || utf8.RuneCountInString(email) > 120 || !strings.Contains(email, "@") {
		return invalid("email", "a valid email is required")
	}
	return nil
}

func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid(field, "password must be at least 6 characters")
	}
	return nil
}

// Register creates an account and links invites already addressed to its email.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := validatePassword("password", in.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: in.Username, Email: in.Email, PasswordHash: hash}
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return translate(err, "user")
		}
		linked, err := tx.Invites().LinkInvitee(ctx, user.Email, user.ID)
		if err != nil {
			return err
		}
		if linked > 0 {
			s.logger.Debug("linked pending invites", "user_id", user.ID, "count", linked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies a username and password.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: ErrInvalidCredentials, Message: "invalid username or password"}
		}
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, &Error{Kind: ErrInvalidCredentials, Message: "invalid username or password"}
		}
		return nil, err
	}
	return user, nil
}

// GetUser returns a user by ID.
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

// UpdateProfile changes username and/or email.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, upd ProfileUpdate) (*models.User, error) {
	var user *models.User
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		user, err = tx.Users().Get(ctx, userID)
		if err != nil {
			return translate(err, "user")
		}

		if upd.Username != nil {
			username := strings.TrimSpace(*upd.Username)
			if err := validateUsername(username); err != nil {
				return err
			}
			user.Username = username
		}
		if upd.Email != nil {
			email := strings.TrimSpace(*upd.Email)
			if err := validateEmail(email); err != nil {
				return err
			}
			user.Email = email
		}

		return translate(tx.Users().Update(ctx, user), "user")
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if err := validatePassword("new_password", next); err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(tx store.Store) error {
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return translate(err, "user")
		}
		if err := auth.CheckPassword(user.PasswordHash, current); err != nil {
			if errors.Is(err, auth.ErrPasswordMismatch) {
				return invalid("current_password", "current password is incorrect")
			}
			return err
		}

		hash, err := auth.HashPassword(next)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		return translate(tx.Users().Update(ctx, user), "user")
	})
}

// DeleteAccount removes the user and everything they own.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		return translate(tx.Users().Delete(ctx, userID), "user")
	})
}
