package planner

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

const maxTitleLength = 200

// EventInput holds the fields of a new event.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Location    string
}

// EventUpdate holds optional event changes.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *string
	Location    *string
}

func validateTitle(title string) error {
	if title == "" {
		return invalid("title", "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return invalid("title", "title must be at most 200 characters")
	}
	return nil
}

func validateLocation(location string) error {
	if utf8.RuneCountInString(location) > maxTitleLength {
		return invalid("location", "location must be at most 200 characters")
	}
	return nil
}

// accessibleEvent loads an event the user may read.
func accessibleEvent(ctx context.Context, st store.Store, userID, eventID int64) (*models.Event, error) {
	event, err := st.Events().Get(ctx, eventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	ok, err := auth.CanAccessEvent(ctx, st.Invites(), userID, event)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, forbidden("you do not have access to this event")
	}
	return event, nil
}

// ownedEvent loads an event the user owns.
func ownedEvent(ctx context.Context, st store.Store, userID, eventID int64) (*models.Event, error) {
	event, err := st.Events().Get(ctx, eventID)
	if err != nil {
		return nil, translate(err, "event")
	}
	if !auth.CanModifyEvent(userID, event) {
		return nil, forbidden("only the event owner can do that")
	}
	return event, nil
}

// ListUpcomingEvents lists the user's events dated now or later, soonest first.
func (s *Service) ListUpcomingEvents(ctx context.Context, userID int64) ([]*models.Event, error) {
	return s.store.Events().ListByOwner(ctx, userID, store.ScopeUpcoming, s.now())
}

// ListPastEvents lists the user's events dated before now, most recent first.
func (s *Service) ListPastEvents(ctx context.Context, userID int64) ([]*models.Event, error) {
	return s.store.Events().ListByOwner(ctx, userID, store.ScopePast, s.now())
}

// ListInvitedEvents lists events the user holds an invite for.
func (s *Service) ListInvitedEvents(ctx context.Context, userID int64) ([]*models.InvitedEvent, error) {
	return s.store.Events().ListInvited(ctx, userID)
}

// CreateEvent creates an event owned by userID.
func (s *Service) CreateEvent(ctx context.Context, userID int64, in EventInput) (*models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateLocation(in.Location); err != nil {
		return nil, err
	}
	date, err := ParseDate(in.Date, s.loc)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:       title,
		Description: in.Description,
		Date:        date,
		Location:    in.Location,
		OwnerID:     userID,
	}

	var created *models.Event
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.Users().Get(ctx, userID); err != nil {
			return translate(err, "user")
		}
		if err := tx.Events().Create(ctx, event); err != nil {
			return err
		}
		var err error
		created, err = tx.Events().Get(ctx, event.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetEvent returns an event the user can access.
func (s *Service) GetEvent(ctx context.Context, userID, eventID int64) (*models.Event, error) {
	return accessibleEvent(ctx, s.store, userID, eventID)
}

// UpdateEvent applies the supplied fields. Only the owner may update.
func (s *Service) UpdateEvent(ctx context.Context, userID, eventID int64, upd EventUpdate) (*models.Event, error) {
	var updated *models.Event
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		event, err := ownedEvent(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}

		if upd.Title != nil {
			title := strings.TrimSpace(*upd.Title)
			if err := validateTitle(title); err != nil {
				return err
			}
			event.Title = title
		}
		if upd.Description != nil {
			event.Description = *upd.Description
		}
		if upd.Date != nil {
			date, err := ParseDate(*upd.Date, s.loc)
			if err != nil {
				return err
			}
			event.Date = date
		}
		if upd.Location != nil {
			if err := validateLocation(*upd.Location); err != nil {
				return err
			}
			event.Location = *upd.Location
		}

		if err := tx.Events().Update(ctx, event); err != nil {
			return translate(err, "event")
		}
		updated, err = tx.Events().Get(ctx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEvent removes an event with its tasks, RSVPs and invites.
func (s *Service) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := ownedEvent(ctx, tx, userID, eventID); err != nil {
			return err
		}
		return translate(tx.Events().Delete(ctx, eventID), "event")
	})
}

// EventSnapshot is an event with its tasks and RSVPs.
type EventSnapshot struct {
	Event *models.Event
	Tasks []*models.Task
	RSVPs []*models.RSVP
}

// GetEventSnapshot loads an accessible event with its tasks and RSVPs.
func (s *Service) GetEventSnapshot(ctx context.Context, userID, eventID int64) (*EventSnapshot, error) {
	event, err := accessibleEvent(ctx, s.store, userID, eventID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.store.Tasks().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rsvps, err := s.store.RSVPs().ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &EventSnapshot{Event: event, Tasks: tasks, RSVPs: rsvps}, nil
}
