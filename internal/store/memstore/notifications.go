package memstore

import (
	"context"
	"slices"
	"sort"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

type notificationStore struct {
	s *Store
}

func (ns *notificationStore) Create(ctx context.Context, n *models.Notification) error {
	return ns.s.do(func(d *dataset) error {
		if _, ok := d.users[n.UserID]; !ok {
			return errMissing("user", n.UserID)
		}
		n.ID = d.nextID()
		n.Read = false
		n.CreatedAt = ns.s.timestamp()
		stored := *n
		stored.RelatedID = copyInt64(n.RelatedID)
		d.notifications[n.ID] = stored
		return nil
	})
}

func (ns *notificationStore) List(ctx context.Context, userID int64, filter store.NotificationFilter) ([]*models.Notification, error) {
	var out []*models.Notification
	err := ns.s.do(func(d *dataset) error {
		for _, n := range d.notifications {
			n := n // per-iteration copy; the address is retained below
			if n.UserID != userID {
				continue
			}
			if filter.UnreadOnly && n.Read {
				continue
			}
			if len(filter.Types) > 0 && !slices.Contains(filter.Types, n.Type) {
				continue
			}
			n.RelatedID = copyInt64(n.RelatedID)
			out = append(out, &n)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, err
}

func (ns *notificationStore) MarkRead(ctx context.Context, id, userID int64) error {
	return ns.s.do(func(d *dataset) error {
		n, ok := d.notifications[id]
		if !ok || n.UserID != userID {
			return store.ErrNotFound
		}
		n.Read = true
		d.notifications[id] = n
		return nil
	})
}

func (ns *notificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := ns.s.do(func(d *dataset) error {
		for id, n := range d.notifications {
			if n.UserID == userID && !n.Read {
				n.Read = true
				d.notifications[id] = n
				count++
			}
		}
		return nil
	})
	return count, err
}
