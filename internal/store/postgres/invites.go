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

// InviteStore implements store.InviteStore using PostgreSQL.
type InviteStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *InviteStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const inviteView = `
	SELECT i.id, i.event_id, i.inviter_id, i.invitee_email, i.invitee_id, i.status, i.message,
	       i.created_at, i.responded_at,
	       e.title, e.event_date, inviter.username, invitee.username
	FROM invites i
	JOIN events e ON e.id = i.event_id
	JOIN users inviter ON inviter.id = i.inviter_id
	LEFT JOIN users invitee ON invitee.id = i.invitee_id`

func scanInvite(row scanner) (*models.Invite, error) {
	var inv models.Invite
	var inviteeID sql.NullInt64
	var respondedAt sql.NullTime
	var invitee sql.NullString
	if err := row.Scan(
		&inv.ID, &inv.EventID, &inv.InviterID, &inv.InviteeEmail, &inviteeID, &inv.Status, &inv.Message,
		&inv.CreatedAt, &respondedAt,
		&inv.EventTitle, &inv.EventDate, &inv.Inviter, &invitee,
	); err != nil {
		return nil, err
	}
	if inviteeID.Valid {
		inv.InviteeID = &inviteeID.Int64
	}
	if respondedAt.Valid {
		inv.RespondedAt = &respondedAt.Time
	}
	if invitee.Valid {
		inv.Invitee = &invitee.String
	}
	inv.EventDate = inv.EventDate.UTC()
	return &inv, nil
}

// Create inserts a new invite.
func (s *InviteStore) Create(ctx context.Context, invite *models.Invite) error {
	if invite.Status == "" {
		invite.Status = models.InviteStatusPending
	}

	query := `
		INSERT INTO invites (event_id, inviter_id, invitee_email, invitee_id, status, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.conn().QueryRowContext(ctx, query,
		invite.EventID,
		invite.InviterID,
		invite.InviteeEmail,
		invite.InviteeID,
		string(invite.Status),
		invite.Message,
	).Scan(&invite.ID, &invite.CreatedAt)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("inserting invite: %w", err)
	}
	return nil
}

// Get retrieves an invite by ID.
func (s *InviteStore) Get(ctx context.Context, id int64) (*models.Invite, error) {
	invite, err := scanInvite(s.conn().QueryRowContext(ctx, inviteView+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying invite: %w", err)
	}
	return invite, nil
}

// ExistsForInvitee reports whether userID holds an invite for eventID.
func (s *InviteStore) ExistsForInvitee(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := s.conn().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invites WHERE event_id = $1 AND invitee_id = $2)`,
		eventID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking invite: %w", err)
	}
	return exists, nil
}

// ListReceived lists invites addressed to userID.
func (s *InviteStore) ListReceived(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return s.list(ctx, inviteView+` WHERE i.invitee_id = $1 ORDER BY i.created_at DESC, i.id DESC`, userID)
}

// ListSent lists invites sent by userID.
func (s *InviteStore) ListSent(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return s.list(ctx, inviteView+` WHERE i.inviter_id = $1 ORDER BY i.created_at DESC, i.id DESC`, userID)
}

func (s *InviteStore) list(ctx context.Context, query string, args ...any) ([]*models.Invite, error) {
	rows, err := s.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying invites: %w", err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}
	return invites, nil
}

// Update writes the response fields of an invite.
func (s *InviteStore) Update(ctx context.Context, invite *models.Invite) error {
	query := `
		UPDATE invites
		SET status = $1, message = $2, responded_at = $3
		WHERE id = $4`

	res, err := s.conn().ExecContext(ctx, query, string(invite.Status), invite.Message, invite.RespondedAt, invite.ID)
	if err != nil {
		return fmt.Errorf("updating invite: %w", err)
	}
	return requireAffected(res, "invite")
}

// Delete removes an invite.
func (s *InviteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn().ExecContext(ctx, `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}
	return requireAffected(res, "invite")
}

// LinkInvitee attaches invites sent to email before the account existed.
func (s *InviteStore) LinkInvitee(ctx context.Context, email string, userID int64) (int64, error) {
	res, err := s.conn().ExecContext(ctx,
		`UPDATE invites SET invitee_id = $1 WHERE invitee_email = $2 AND invitee_id IS NULL`,
		userID, email,
	)
	if err != nil {
		return 0, fmt.Errorf("linking invites: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}
