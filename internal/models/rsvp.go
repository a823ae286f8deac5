package models

import "time"

// Common RSVP statuses. Status is stored as free text, these are the values
// the bundled client sends.
const (
	RSVPStatusGoing    = "going"
	RSVPStatusNotGoing = "not going"
	RSVPStatusMaybe    = "maybe"
)

// RSVP is a user's attendance response to an event. There is at most one
// per (user, event) pair.
type RSVP struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventID   int64     `json:"event_id"`
	Status    string    `json:"status"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username   string `json:"user"`
	EventTitle string `json:"event"`
}
