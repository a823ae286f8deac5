package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// EventStore implements store.EventStore using PostgreSQL.
type EventStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

func (s *EventStore) conn() queryable {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// eventView selects an event with its creator and child counts.
const eventView = `
	SELECT e.id, e.title, e.description, e.event_date, e.location, e.owner_id, e.created_at,
	       u.username,
	       (SELECT COUNT(*) FROM tasks t WHERE t.event_id = e.id),
	       (SELECT COUNT(*) FROM rsvps r WHERE r.event_id = e.id)
	FROM events e
	JOIN users u ON u.id = e.owner_id`

func scanEvent(row scanner, extra ...any) (*models.Event, error) {
	var e models.Event
	dest := []any{
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.OwnerID, &e.CreatedAt,
		&e.Creator, &e.TasksCount, &e.RSVPsCount,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	e.Date = e.Date.UTC()
	return &e, nil
}

// Create inserts a new event.
func (s *EventStore) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, location, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := s.conn().QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.OwnerID,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Get retrieves an event by ID.
func (s *EventStore) Get(ctx context.Context, id int64) (*models.Event, error) {
	event, err := scanEvent(s.conn().QueryRowContext(ctx, eventView+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("querying event: %w", err)
	}
	return event, nil
}

// ListByOwner lists the owner's upcoming or past events.
func (s *EventStore) ListByOwner(ctx context.Context, ownerID int64, scope store.EventScope, now time.Time) ([]*models.Event, error) {
	query := eventView + ` WHERE e.owner_id = $1 AND e.event_date >= $2 ORDER BY e.event_date ASC, e.id ASC`
	if scope == store.ScopePast {
		query = eventView + ` WHERE e.owner_id = $1 AND e.event_date < $2 ORDER BY e.event_date DESC, e.id DESC`
	}

	rows, err := s.conn().QueryContext(ctx, query, ownerID, now)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}
	return events, nil
}

// ListInvited lists every event the user holds an invite for, newest invite first.
func (s *EventStore) ListInvited(ctx context.Context, userID int64) ([]*models.InvitedEvent, error) {
	inviteRows, err := s.conn().QueryContext(ctx, `
		SELECT id, event_id, status, message, created_at
		FROM invites
		WHERE invitee_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying invites: %w", err)
	}
	defer inviteRows.Close()

	var invited []*models.InvitedEvent
	var eventIDs []int64
	for inviteRows.Next() {
		ie := &models.InvitedEvent{}
		if err := inviteRows.Scan(&ie.InviteID, &ie.ID, &ie.InviteStatus, &ie.InviteMessage, &ie.InvitedAt); err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invited = append(invited, ie)
		eventIDs = append(eventIDs, ie.ID)
	}
	if err := inviteRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}
	if len(eventIDs) == 0 {
		return invited, nil
	}

	rows, err := s.conn().QueryContext(ctx, eventView+` WHERE e.id = ANY($1)`, pq.Array(eventIDs))
	if err != nil {
		return nil, fmt.Errorf("querying invited events: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*models.Event, len(eventIDs))
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		byID[event.ID] = event
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating event rows: %w", err)
	}

	for _, ie := range invited {
		if event, ok := byID[ie.ID]; ok {
			ie.Event = *event
		}
	}
	return invited, nil
}

// Update updates an event's mutable fields.
func (s *EventStore) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, event_date = $3, location = $4
		WHERE id = $5`

	res, err := s.conn().ExecContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Location,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("updating event: %w", err)
	}
	return requireAffected(res, "event")
}

// Delete removes an event; tasks, RSVPs and invites cascade.
func (s *EventStore) Delete(ctx context.Context, id int64) error {
	res, err := s.conn().ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return requireAffected(res, "event")
}
