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

// RSVPStore implements store.RSVPStore using PostgreSQL.
type RSVPStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *RSVPStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const rsvpView = `
	SELECT r.id, r.user_id, r.event_id, r.status, r.message, r.created_at, r.updated_at,
	       u.username, e.title
	FROM rsvps r
	JOIN users u ON u.id = r.user_id
	JOIN events e ON e.id = r.event_id`

func scanRSVP(row scanner) (*models.RSVP, error) {
	var r models.RSVP
	var message sql.NullString
	if err := row.Scan(
		&r.ID, &r.UserID, &r.EventID, &r.Status, &message, &r.CreatedAt, &r.UpdatedAt,
		&r.Username, &r.EventTitle,
	); err != nil {
		return nil, err
	}
	if message.Valid {
		r.Message = &message.String
	}
	return &r, nil
}

// Get retrieves the RSVP of userID for eventID.
func (s *RSVPStore) Get(ctx context.Context, userID, eventID int64) (*models.RSVP, error) {
	rsvp, err := scanRSVP(s.conn().QueryRowContext(ctx,
		rsvpView+` WHERE r.user_id = $1 AND r.event_id = $2`, userID, eventID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying rsvp: %w", err)
	}
	return rsvp, nil
}

// Create inserts a new RSVP.
func (s *RSVPStore) Create(ctx context.Context, rsvp *models.RSVP) error {
	query := `
		INSERT INTO rsvps (user_id, event_id, status, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.conn().QueryRowContext(ctx, query,
		rsvp.UserID,
		rsvp.EventID,
		rsvp.Status,
		rsvp.Message,
	).Scan(&rsvp.ID, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("inserting rsvp: %w", err)
	}
	return nil
}

// Update updates an RSVP's status and message.
func (s *RSVPStore) Update(ctx context.Context, rsvp *models.RSVP) error {
	query := `
		UPDATE rsvps
		SET status = $1, message = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	err := s.conn().QueryRowContext(ctx, query, rsvp.Status, rsvp.Message, rsvp.ID).Scan(&rsvp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrNotFound
		}
		return fmt.Errorf("updating rsvp: %w", err)
	}
	return nil
}

// ListByEvent lists RSVPs for an event.
func (s *RSVPStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.RSVP, error) {
	rows, err := s.conn().QueryContext(ctx, rsvpView+` WHERE r.event_id = $1 ORDER BY r.created_at ASC, r.id ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("querying rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*models.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rsvp row: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rsvp rows: %w", err)
	}
	return rsvps, nil
}
