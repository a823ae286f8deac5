package models

import "time"

// Event represents a planned event owned by a single user.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Read-side fields filled by the store.
	Creator    string `json:"creator"`
	TasksCount int    `json:"tasks_count"`
	RSVPsCount int    `json:"rsvps_count"`
}

// IsOwnedBy reports whether userID owns the event.
func (e *Event) IsOwnedBy(userID int64) bool {
	return e != nil && e.OwnerID == userID
}

// IsPast reports whether the event date lies before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// InvitedEvent is an event seen through the caller's invite.
type InvitedEvent struct {
	Event
	InviteID      int64        `json:"invite_id"`
	InviteStatus  InviteStatus `json:"invite_status"`
	InviteMessage string       `json:"invite_message"`
	InvitedAt     time.Time    `json:"invited_at"`
}
