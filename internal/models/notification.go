package models

import "time"

// NotificationType tags what triggered a notification.
type NotificationType string

const (
	NotificationInvite          NotificationType = "invite"
	NotificationInviteResponse  NotificationType = "invite_response"
	NotificationInviteCancelled NotificationType = "invite_cancelled"
	NotificationRSVPNew         NotificationType = "rsvp_new"
	NotificationRSVPUpdate      NotificationType = "rsvp_update"
)

// Notification is a polled message for a single user. Only Read ever changes
// after creation.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *int64           `json:"related_id"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
