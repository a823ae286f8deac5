package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolationCode = "23505"

// constraintErrors maps unique constraint names from the schema to store errors.
var constraintErrors = map[string]error{
	"users_username_key":      store.ErrDuplicateUsername,
	"users_email_key":         store.ErrDuplicateEmail,
	"invites_event_email_key": store.ErrDuplicateInvite,
	"rsvps_user_event_key":    store.ErrDuplicateRSVP,
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return strings.Contains(err.Error(), uniqueViolationCode) ||
		strings.Contains(err.Error(), "duplicate key")
}

// mapUniqueViolation translates a unique violation into the matching store error.
// It returns nil when err is not a recognised unique violation.
func mapUniqueViolation(err error) error {
	if !isUniqueViolation(err) {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if mapped, ok := constraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	msg := err.Error()
	for name, mapped := range constraintErrors {
		if strings.Contains(msg, name) {
			return mapped
		}
	}
	return nil
}
