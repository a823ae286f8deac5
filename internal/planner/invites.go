package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// InviteInput holds the fields of a new invite.
type InviteInput struct {
	Email   string
	Message string
}

// SendInvite invites the account registered under in.Email to an event the
// user owns and notifies the invitee.
func (s *Service) SendInvite(ctx context.Context, userID, eventID int64, in InviteInput) (*models.Invite, error) {
	email := strings.TrimSpace(in.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	var invite *models.Invite
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		event, err := ownedEvent(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}
		inviter, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return translate(err, "user")
		}
		if strings.EqualFold(inviter.Email, email) {
			return invalid("email", "you cannot invite yourself")
		}

		invitee, err := tx.Users().GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &Error{Kind: ErrNotFound, Message: "no registered user with that email"}
			}
			return err
		}

		created := &models.Invite{
			EventID:      event.ID,
			InviterID:    userID,
			InviteeEmail: invitee.Email,
			InviteeID:    &invitee.ID,
			Status:       models.InviteStatusPending,
			Message:      in.Message,
		}
		if err := tx.Invites().Create(ctx, created); err != nil {
			return translate(err, "invite")
		}

		inviteID := created.ID
		if err := tx.Notifications().Create(ctx, &models.Notification{
			UserID:    invitee.ID,
			Type:      models.NotificationInvite,
			Title:     fmt.Sprintf("%s invited you to %s", inviter.Username, event.Title),
			Message:   in.Message,
			RelatedID: &inviteID,
		}); err != nil {
			return err
		}

		invite, err = tx.Invites().Get(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// ListReceivedInvites lists invites addressed to the user, newest first.
func (s *Service) ListReceivedInvites(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return s.store.Invites().ListReceived(ctx, userID)
}

// ListSentInvites lists invites the user sent, newest first.
func (s *Service) ListSentInvites(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return s.store.Invites().ListSent(ctx, userID)
}

// receivedInvite loads an invite addressed to the user.
func receivedInvite(ctx context.Context, st store.Store, userID, inviteID int64) (*models.Invite, *models.User, error) {
	invite, err := st.Invites().Get(ctx, inviteID)
	if err != nil {
		return nil, nil, translate(err, "invite")
	}
	if !invite.IsInvitee(userID) {
		return nil, nil, forbidden("this invite is not addressed to you")
	}
	user, err := st.Users().Get(ctx, userID)
	if err != nil {
		return nil, nil, translate(err, "user")
	}
	return invite, user, nil
}

// RespondInvite accepts or declines a pending invite and notifies the inviter.
func (s *Service) RespondInvite(ctx context.Context, userID, inviteID int64, status models.InviteStatus, message string) (*models.Invite, error) {
	if !status.IsResponse() {
		return nil, invalid("status", "status must be accepted or declined")
	}

	var invite *models.Invite
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var (
			user *models.User
			err  error
		)
		invite, user, err = receivedInvite(ctx, tx, userID, inviteID)
		if err != nil {
			return err
		}
		if err := invite.Respond(status, message, s.now().UTC()); err != nil {
			return err
		}
		if err := tx.Invites().Update(ctx, invite); err != nil {
			return translate(err, "invite")
		}

		relatedID := invite.ID
		return tx.Notifications().Create(ctx, &models.Notification{
			UserID:    invite.InviterID,
			Type:      models.NotificationInviteResponse,
			Title:     fmt.Sprintf("%s %s your invite to %s", user.Username, status, invite.EventTitle),
			Message:   message,
			RelatedID: &relatedID,
		})
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// CancelInvite withdraws a pending invite on the invitee's side, deleting it
// and notifying the inviter.
func (s *Service) CancelInvite(ctx context.Context, userID, inviteID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		invite, user, err := receivedInvite(ctx, tx, userID, inviteID)
		if err != nil {
			return err
		}
		if !invite.IsPending() {
			return invalid("status", "only pending invites can be cancelled")
		}
		if err := tx.Invites().Delete(ctx, invite.ID); err != nil {
			return translate(err, "invite")
		}

		relatedID := invite.ID
		return tx.Notifications().Create(ctx, &models.Notification{
			UserID:    invite.InviterID,
			Type:      models.NotificationInviteCancelled,
			Title:     fmt.Sprintf("%s cancelled their invite to %s", user.Username, invite.EventTitle),
			RelatedID: &relatedID,
		})
	})
}
