package memstore

import (
	"context"
	"sort"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type inviteStore struct {
	s *Store
}

func (is *inviteStore) Create(ctx context.Context, invite *models.Invite) error {
	return is.s.do(func(d *dataset) error {
		if _, ok := d.events[invite.EventID]; !ok {
			return errMissing("event", invite.EventID)
		}
		if _, ok := d.users[invite.InviterID]; !ok {
			return errMissing("user", invite.InviterID)
		}
		for _, inv := range d.invites {
			if inv.EventID == invite.EventID && inv.InviteeEmail == invite.InviteeEmail {
				return store.ErrDuplicateInvite
			}
		}
		if invite.Status == "" {
			invite.Status = models.InviteStatusPending
		}
		invite.ID = d.nextID()
		invite.CreatedAt = is.s.timestamp()
		stored := *invite
		stored.InviteeID = copyInt64(invite.InviteeID)
		stored.RespondedAt = copyTime(invite.RespondedAt)
		d.invites[invite.ID] = stored
		return nil
	})
}

func (is *inviteStore) Get(ctx context.Context, id int64) (*models.Invite, error) {
	var invite *models.Invite
	err := is.s.do(func(d *dataset) error {
		inv, ok := d.invites[id]
		if !ok {
			return store.ErrNotFound
		}
		invite = d.inviteView(inv)
		return nil
	})
	return invite, err
}

func (is *inviteStore) ExistsForInvitee(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := is.s.do(func(d *dataset) error {
		for _, inv := range d.invites {
			if inv.EventID == eventID && inv.IsInvitee(userID) {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (is *inviteStore) ListReceived(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return is.list(func(inv models.Invite) bool { return inv.IsInvitee(userID) })
}

func (is *inviteStore) ListSent(ctx context.Context, userID int64) ([]*models.Invite, error) {
	return is.list(func(inv models.Invite) bool { return inv.InviterID == userID })
}

func (is *inviteStore) list(match func(models.Invite) bool) ([]*models.Invite, error) {
	var invites []*models.Invite
	err := is.s.do(func(d *dataset) error {
		for _, inv := range d.invites {
			if match(inv) {
				invites = append(invites, d.inviteView(inv))
			}
		}
		return nil
	})
	sort.Slice(invites, func(i, j int) bool {
		a, b := invites[i], invites[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return invites, err
}

func (is *inviteStore) Update(ctx context.Context, invite *models.Invite) error {
	return is.s.do(func(d *dataset) error {
		existing, ok := d.invites[invite.ID]
		if !ok {
			return store.ErrNotFound
		}
		existing.Status = invite.Status
		existing.Message = invite.Message
		existing.RespondedAt = copyTime(invite.RespondedAt)
		d.invites[invite.ID] = existing
		return nil
	})
}

func (is *inviteStore) Delete(ctx context.Context, id int64) error {
	return is.s.do(func(d *dataset) error {
		if _, ok := d.invites[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.invites, id)
		return nil
	})
}

func (is *inviteStore) LinkInvitee(ctx context.Context, email string, userID int64) (int64, error) {
	var n int64
	err := is.s.do(func(d *dataset) error {
		for id, inv := range d.invites {
			if inv.InviteeEmail == email && inv.InviteeID == nil {
				uid := userID
				inv.InviteeID = &uid
				d.invites[id] = inv
				n++
			}
		}
		return nil
	})
	return n, err
}
