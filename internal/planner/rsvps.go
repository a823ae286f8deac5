package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// RSVPInput holds an RSVP submission.
type RSVPInput struct {
	Status  string
	Message *string
}

// ListRSVPs lists the RSVPs of an event the user can access.
func (s *Service) ListRSVPs(ctx context.Context, userID, eventID int64) ([]*models.RSVP, error) {
	if _, err := accessibleEvent(ctx, s.store, userID, eventID); err != nil {
		return nil, err
	}
	return s.store.RSVPs().ListByEvent(ctx, eventID)
}

// UpsertRSVP records the user's RSVP for an event, replacing any earlier one.
// created reports whether a new row was inserted. A non-owner's RSVP notifies
// the event owner.
func (s *Service) UpsertRSVP(ctx context.Context, userID, eventID int64, in RSVPInput) (rsvp *models.RSVP, created bool, err error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, false, invalid("status", "status is required")
	}
	if utf8.RuneCountInString(status) > 20 {
		return nil, false, invalid("status", "status must be at most 20 characters")
	}
	in.Status = status

	rsvp, created, err = s.upsertRSVP(ctx, userID, eventID, in)
	if errors.Is(err, store.ErrDuplicateRSVP) {
		// A concurrent first RSVP won the insert; this attempt sees its row.
		rsvp, created, err = s.upsertRSVP(ctx, userID, eventID, in)
	}
	if errors.Is(err, store.ErrDuplicateRSVP) {
		err = translate(err, "rsvp")
	}
	return rsvp, created, err
}

func (s *Service) upsertRSVP(ctx context.Context, userID, eventID int64, in RSVPInput) (*models.RSVP, bool, error) {
	var (
		rsvp    *models.RSVP
		created bool
	)
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		event, err := accessibleEvent(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}
		user, err := tx.Users().Get(ctx, userID)
		if err != nil {
			return translate(err, "user")
		}

		existing, err := tx.RSVPs().Get(ctx, userID, eventID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			created = true
			if err := tx.RSVPs().Create(ctx, &models.RSVP{
				UserID:  userID,
				EventID: eventID,
				Status:  in.Status,
				Message: in.Message,
			}); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Status = in.Status
			existing.Message = in.Message
			if err := tx.RSVPs().Update(ctx, existing); err != nil {
				return err
			}
		}

		if !event.IsOwnedBy(userID) {
			notificationType := models.NotificationRSVPUpdate
			if created {
				notificationType = models.NotificationRSVPNew
			}
			var message string
			if in.Message != nil {
				message = *in.Message
			}
			relatedID := event.ID
			if err := tx.Notifications().Create(ctx, &models.Notification{
				UserID:    event.OwnerID,
				Type:      notificationType,
				Title:     fmt.Sprintf("%s RSVP'd %s to %s", user.Username, in.Status, event.Title),
				Message:   message,
				RelatedID: &relatedID,
			}); err != nil {
				return err
			}
		}

		rsvp, err = tx.RSVPs().Get(ctx, userID, eventID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return rsvp, created, nil
}
