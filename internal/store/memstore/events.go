package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type eventStore struct {
	s *Store
}

func (es *eventStore) Create(ctx context.Context, event *models.Event) error {
	return es.s.do(func(d *dataset) error {
		if _, ok := d.users[event.OwnerID]; !ok {
			return errMissing("user", event.OwnerID)
		}
		event.ID = d.nextID()
		event.CreatedAt = es.s.timestamp()
		event.Date = event.Date.UTC()
		stored := *event
		stored.Creator, stored.TasksCount, stored.RSVPsCount = "", 0, 0
		d.events[event.ID] = stored
		return nil
	})
}

func (es *eventStore) Get(ctx context.Context, id int64) (*models.Event, error) {
	var event *models.Event
	err := es.s.do(func(d *dataset) error {
		e, ok := d.events[id]
		if !ok {
			return store.ErrNotFound
		}
		event = d.eventView(e)
		return nil
	})
	return event, err
}

func (es *eventStore) ListByOwner(ctx context.Context, ownerID int64, scope store.EventScope, now time.Time) ([]*models.Event, error) {
	var events []*models.Event
	err := es.s.do(func(d *dataset) error {
		for _, e := range d.events {
			if e.OwnerID != ownerID {
				continue
			}
			past := e.Date.Before(now)
			if (scope == store.ScopePast) != past {
				continue
			}
			events = append(events, d.eventView(e))
		}
		return nil
	})
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			if scope == store.ScopePast {
				return a.Date.After(b.Date)
			}
			return a.Date.Before(b.Date)
		}
		if scope == store.ScopePast {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
	return events, err
}

func (es *eventStore) ListInvited(ctx context.Context, userID int64) ([]*models.InvitedEvent, error) {
	var invited []*models.InvitedEvent
	err := es.s.do(func(d *dataset) error {
		for _, inv := range d.invites {
			if !inv.IsInvitee(userID) {
				continue
			}
			e, ok := d.events[inv.EventID]
			if !ok {
				continue
			}
			invited = append(invited, &models.InvitedEvent{
				Event:         *d.eventView(e),
				InviteID:      inv.ID,
				InviteStatus:  inv.Status,
				InviteMessage: inv.Message,
				InvitedAt:     inv.CreatedAt,
			})
		}
		return nil
	})
	sort.Slice(invited, func(i, j int) bool {
		a, b := invited[i], invited[j]
		if !a.InvitedAt.Equal(b.InvitedAt) {
			return a.InvitedAt.After(b.InvitedAt)
		}
		return a.InviteID > b.InviteID
	})
	return invited, err
}

func (es *eventStore) Update(ctx context.Context, event *models.Event) error {
	return es.s.do(func(d *dataset) error {
		existing, ok := d.events[event.ID]
		if !ok {
			return store.ErrNotFound
		}
		existing.Title = event.Title
		existing.Description = event.Description
		existing.Date = event.Date.UTC()
		existing.Location = event.Location
		d.events[event.ID] = existing
		return nil
	})
}

func (es *eventStore) Delete(ctx context.Context, id int64) error {
	return es.s.do(func(d *dataset) error {
		if _, ok := d.events[id]; !ok {
			return store.ErrNotFound
		}
		d.deleteEvent(id)
		return nil
	})
}
