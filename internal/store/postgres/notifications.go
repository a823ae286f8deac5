package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// NotificationStore implements store.NotificationStore using PostgreSQL.
type NotificationStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *NotificationStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Create inserts a new notification.
func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, related_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, read, created_at`

	err := s.conn().QueryRowContext(ctx, query,
		n.UserID,
		string(n.Type),
		n.Title,
		n.Message,
		n.RelatedID,
	).Scan(&n.ID, &n.Read, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}

// List lists a user's notifications newest first.
func (s *NotificationStore) List(ctx context.Context, userID int64, filter store.NotificationFilter) ([]*models.Notification, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, user_id, type, title, message, related_id, read, created_at
		FROM notifications
		WHERE user_id = $1`)
	args := []any{userID}

	if filter.UnreadOnly {
		sb.WriteString(` AND read = FALSE`)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		fmt.Fprintf(&sb, ` AND type = ANY($%d)`, len(args))
	}
	sb.WriteString(` ORDER BY created_at DESC, id DESC`)

	rows, err := s.conn().QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		var relatedID sql.NullInt64
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &relatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		if relatedID.Valid {
			n.RelatedID = &relatedID.Int64
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}
	return notifications, nil
}

// MarkRead marks a notification read if it belongs to userID.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := s.conn().ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return requireAffected(res, "notification")
}

// MarkAllRead marks every unread notification of userID.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.conn().ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}
	return n, nil
}
