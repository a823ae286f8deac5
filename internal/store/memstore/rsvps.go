package memstore

import (
	"context"
	"sort"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type rsvpStore struct {
	s *Store
}

func (rs *rsvpStore) Get(ctx context.Context, userID, eventID int64) (*models.RSVP, error) {
	var rsvp *models.RSVP
	err := rs.s.do(func(d *dataset) error {
		for _, r := range d.rsvps {
			if r.UserID == userID && r.EventID == eventID {
				rsvp = d.rsvpView(r)
				return nil
			}
		}
		return store.ErrNotFound
	})
	return rsvp, err
}

func (rs *rsvpStore) Create(ctx context.Context, rsvp *models.RSVP) error {
	return rs.s.do(func(d *dataset) error {
		if _, ok := d.users[rsvp.UserID]; !ok {
			return errMissing("user", rsvp.UserID)
		}
		if _, ok := d.events[rsvp.EventID]; !ok {
			return errMissing("event", rsvp.EventID)
		}
		for _, r := range d.rsvps {
			if r.UserID == rsvp.UserID && r.EventID == rsvp.EventID {
				return store.ErrDuplicateRSVP
			}
		}
		now := rs.s.timestamp()
		rsvp.ID = d.nextID()
		rsvp.CreatedAt = now
		rsvp.UpdatedAt = now
		stored := *rsvp
		stored.Message = copyString(rsvp.Message)
		d.rsvps[rsvp.ID] = stored
		return nil
	})
}

func (rs *rsvpStore) Update(ctx context.Context, rsvp *models.RSVP) error {
	return rs.s.do(func(d *dataset) error {
		existing, ok := d.rsvps[rsvp.ID]
		if !ok {
			return store.ErrNotFound
		}
		existing.Status = rsvp.Status
		existing.Message = copyString(rsvp.Message)
		existing.UpdatedAt = rs.s.timestamp()
		rsvp.UpdatedAt = existing.UpdatedAt
		d.rsvps[rsvp.ID] = existing
		return nil
	})
}

func (rs *rsvpStore) ListByEvent(ctx context.Context, eventID int64) ([]*models.RSVP, error) {
	var rsvps []*models.RSVP
	err := rs.s.do(func(d *dataset) error {
		for _, r := range d.rsvps {
			if r.EventID == eventID {
				rsvps = append(rsvps, d.rsvpView(r))
			}
		}
		return nil
	})
	sort.Slice(rsvps, func(i, j int) bool { return rsvps[i].ID < rsvps[j].ID })
	return rsvps, err
}
