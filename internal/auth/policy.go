package auth

import (
	"context"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// CanAccessEvent reports whether userID may read the event: the owner always
// can, anyone else needs an invite for it whatever its status.
// Every event-scoped read and the assistant's event context go through here.
func CanAccessEvent(ctx context.Context, invites store.InviteStore, userID int64, event *models.Event) (bool, error) {
	if event == nil {
		return false, nil
	}
	if event.IsOwnedBy(userID) {
		return true, nil
	}
	return invites.ExistsForInvitee(ctx, event.ID, userID)
}

// CanModifyEvent reports whether userID may change the event or its tasks.
func CanModifyEvent(userID int64, event *models.Event) bool {
	return event.IsOwnedBy(userID)
}
