package models

import "time"

// InviteStatus represents the state of an invite.
type InviteStatus string

const (
	// InviteStatusPending indicates the invitee has not answered yet.
	InviteStatusPending InviteStatus = "pending"
	// InviteStatusAccepted indicates the invitee accepted.
	InviteStatusAccepted InviteStatus = "accepted"
	// InviteStatusDeclined indicates the invitee declined.
	InviteStatusDeclined InviteStatus = "declined"
)

// IsResponse reports whether s is a status an invitee may answer with.
func (s InviteStatus) IsResponse() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined
}

// Invite is an offer from the inviter to the owner of InviteeEmail to join an event.
type Invite struct {
	ID           int64        `json:"id"`
	EventID      int64        `json:"event_id"`
	InviterID    int64        `json:"inviter_id"`
	InviteeEmail string       `json:"invitee_email"`
	InviteeID    *int64       `json:"invitee_id"`
	Status       InviteStatus `json:"status"`
	Message      string       `json:"message"`
	CreatedAt    time.Time    `json:"created_at"`
	RespondedAt  *time.Time   `json:"responded_at"`

	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Inviter    string    `json:"inviter"`
	Invitee    *string   `json:"invitee"`
}

// IsPending reports whether the invite still awaits an answer.
func (i *Invite) IsPending() bool {
	return i.Status == InviteStatusPending
}

// IsInvitee reports whether userID is the resolved invitee.
func (i *Invite) IsInvitee(userID int64) bool {
	return i.InviteeID != nil && *i.InviteeID == userID
}

// Respond moves a pending invite to accepted or declined.
func (i *Invite) Respond(status InviteStatus, message string, at time.Time) error {
	if !status.IsResponse() {
		return &ValidationError{Field: "status", Message: "status must be accepted or declined"}
	}
	if !i.IsPending() {
		return &ValidationError{Field: "status", Message: "invite has already been answered"}
	}
	i.Status = status
	i.Message = message
	i.RespondedAt = &at
	return nil
}
