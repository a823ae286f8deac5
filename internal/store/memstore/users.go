package memstore

import (
	"context"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type userStore struct {
	s *Store
}

func (u *userStore) Create(ctx context.Context, user *models.User) error {
	return u.s.do(func(d *dataset) error {
		if err := checkUnique(d, 0, user.Username, user.Email); err != nil {
			return err
		}
		user.ID = d.nextID()
		user.CreatedAt = u.s.timestamp()
		d.users[user.ID] = *user
		return nil
	})
}

func checkUnique(d *dataset, selfID int64, username, email string) error {
	for id, existing := range d.users {
		if id != selfID && existing.Username == username {
			return store.ErrDuplicateUsername
		}
	}
	for id, existing := range d.users {
		if id != selfID && existing.Email == email {
			return store.ErrDuplicateEmail
		}
	}
	return nil
}

func (u *userStore) Get(ctx context.Context, id int64) (*models.User, error) {
	return u.find(func(user models.User) bool { return user.ID == id })
}

func (u *userStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return u.find(func(user models.User) bool { return user.Username == username })
}

func (u *userStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.find(func(user models.User) bool { return user.Email == email })
}

func (u *userStore) find(match func(models.User) bool) (*models.User, error) {
	var found *models.User
	err := u.s.do(func(d *dataset) error {
		for _, user := range d.users {
			if match(user) {
				found = &user
				return nil
			}
		}
		return store.ErrNotFound
	})
	return found, err
}

func (u *userStore) Update(ctx context.Context, user *models.User) error {
	return u.s.do(func(d *dataset) error {
		existing, ok := d.users[user.ID]
		if !ok {
			return store.ErrNotFound
		}
		if err := checkUnique(d, user.ID, user.Username, user.Email); err != nil {
			return err
		}
		existing.Username = user.Username
		existing.Email = user.Email
		existing.PasswordHash = user.PasswordHash
		d.users[user.ID] = existing
		return nil
	})
}

func (u *userStore) Delete(ctx context.Context, id int64) error {
	return u.s.do(func(d *dataset) error {
		if _, ok := d.users[id]; !ok {
			return store.ErrNotFound
		}
		delete(d.users, id)

		for eid, e := range d.events {
			if e.OwnerID == id {
				d.deleteEvent(eid)
			}
		}
		for rid, r := range d.rsvps {
			if r.UserID == id {
				delete(d.rsvps, rid)
			}
		}
		for iid, inv := range d.invites {
			switch {
			case inv.InviterID == id:
				delete(d.invites, iid)
			case inv.IsInvitee(id):
				inv.InviteeID = nil
				d.invites[iid] = inv
			}
		}
		for nid, n := range d.notifications {
			if n.UserID == id {
				delete(d.notifications, nid)
			}
		}
		return nil
	})
}
