// Package store provides database access interfaces and implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
)

// Common store errors.
var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateInvite is returned when the event already has an invite for the email.
	ErrDuplicateInvite = errors.New("invite already sent to this email")

	// ErrDuplicateRSVP is returned when the user already has an RSVP for the event.
	ErrDuplicateRSVP = errors.New("rsvp already exists")
)

// UserStore defines operations for user accounts.
type UserStore interface {
	// Create inserts a user and sets its ID and CreatedAt.
	Create(ctx context.Context, user *models.User) error
	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (*models.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update writes username, email and password hash.
	Update(ctx context.Context, user *models.User) error
	// Delete removes a user together with everything it owns.
	Delete(ctx context.Context, id int64) error
}

// EventScope selects owned events relative to a point in time.
type EventScope int

const (
	// ScopeUpcoming selects events dated at or after the reference time, ascending.
	ScopeUpcoming EventScope = iota
	// ScopePast selects events dated before the reference time, descending.
	ScopePast
)

// EventStore defines operations for events.
type EventStore interface {
	// Create inserts an event and sets its ID and CreatedAt.
	Create(ctx context.Context, event *models.Event) error
	// Get retrieves an event with its creator and child counts.
	Get(ctx context.Context, id int64) (*models.Event, error)
	// ListByOwner lists the owner's events in the given scope relative to now.
	ListByOwner(ctx context.Context, ownerID int64, scope EventScope, now time.Time) ([]*models.Event, error)
	// ListInvited lists every event the user holds an invite for.
	ListInvited(ctx context.Context, userID int64) ([]*models.InvitedEvent, error)
	// Update writes title, description, date and location. The owner never changes.
	Update(ctx context.Context, event *models.Event) error
	// Delete removes an event with its tasks, RSVPs and invites.
	Delete(ctx context.Context, id int64) error
}

// TaskStore defines operations for event tasks.
type TaskStore interface {
	// Create inserts a task and sets its ID and CreatedAt.
	Create(ctx context.Context, task *models.Task) error
	// Get retrieves a task by ID.
	Get(ctx context.Context, id int64) (*models.Task, error)
	// ListByEvent lists tasks ordered by due date (unset last), then ID.
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Task, error)
	// Update writes every mutable field of the task.
	Update(ctx context.Context, task *models.Task) error
	// Delete removes a task.
	Delete(ctx context.Context, id int64) error
}

// RSVPStore defines operations for RSVPs.
type RSVPStore interface {
	// Get retrieves the RSVP of a user for an event.
	Get(ctx context.Context, userID, eventID int64) (*models.RSVP, error)
	// Create inserts an RSVP. Returns ErrDuplicateRSVP if one exists for the pair.
	Create(ctx context.Context, rsvp *models.RSVP) error
	// Update writes status, message and updated_at.
	Update(ctx context.Context, rsvp *models.RSVP) error
	// ListByEvent lists the RSVPs of an event, oldest first.
	ListByEvent(ctx context.Context, eventID int64) ([]*models.RSVP, error)
}

// InviteStore defines operations for invites.
type InviteStore interface {
	// Create inserts an invite. Returns ErrDuplicateInvite for a repeated (event, email).
	Create(ctx context.Context, invite *models.Invite) error
	// Get retrieves an invite with its event and user names.
	Get(ctx context.Context, id int64) (*models.Invite, error)
	// ExistsForInvitee reports whether userID holds an invite for the event.
	ExistsForInvitee(ctx context.Context, eventID, userID int64) (bool, error)
	// ListReceived lists invites addressed to the user, newest first.
	ListReceived(ctx context.Context, userID int64) ([]*models.Invite, error)
	// ListSent lists invites sent by the user, newest first.
	ListSent(ctx context.Context, userID int64) ([]*models.Invite, error)
	// Update writes status, message and responded_at.
	Update(ctx context.Context, invite *models.Invite) error
	// Delete removes an invite.
	Delete(ctx context.Context, id int64) error
	// LinkInvitee attaches unresolved invites for email to userID and returns how many changed.
	LinkInvitee(ctx context.Context, email string, userID int64) (int64, error)
}

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	UnreadOnly bool
	Types      []models.NotificationType
}

// NotificationStore defines operations for notifications.
type NotificationStore interface {
	// Create inserts a notification.
	Create(ctx context.Context, n *models.Notification) error
	// List lists the user's notifications, newest first.
	List(ctx context.Context, userID int64, filter NotificationFilter) ([]*models.Notification, error)
	// MarkRead marks one of the user's notifications read.
	// Returns ErrNotFound if the notification belongs to someone else.
	MarkRead(ctx context.Context, id, userID int64) error
	// MarkAllRead marks every unread notification of the user and returns the count.
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// Store is the main interface for database operations.
type Store interface {
	// Users returns the UserStore for account operations.
	Users() UserStore
	// Events returns the EventStore for event operations.
	Events() EventStore
	// Tasks returns the TaskStore for task operations.
	Tasks() TaskStore
	// RSVPs returns the RSVPStore for RSVP operations.
	RSVPs() RSVPStore
	// Invites returns the InviteStore for invite operations.
	Invites() InviteStore
	// Notifications returns the NotificationStore for notification operations.
	Notifications() NotificationStore

	// WithTx executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error

	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
