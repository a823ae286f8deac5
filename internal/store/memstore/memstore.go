// Package memstore provides an in-memory implementation of store.Store.
//
// Transactions copy the whole dataset, run against the copy and swap it in on
// success, so a failed WithTx leaves no trace. A single mutex serialises
// transactions. It is intended for tests and local development.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// ErrClosed is returned by Ping after Close.
var ErrClosed = errors.New("memstore: closed")

type dataset struct {
	seq           int64
	users         map[int64]models.User
	events        map[int64]models.Event
	tasks         map[int64]models.Task
	rsvps         map[int64]models.RSVP
	invites       map[int64]models.Invite
	notifications map[int64]models.Notification
}

func newDataset() *dataset {
	return &dataset{
		users:         make(map[int64]models.User),
		events:        make(map[int64]models.Event),
		tasks:         make(map[int64]models.Task),
		rsvps:         make(map[int64]models.RSVP),
		invites:       make(map[int64]models.Invite),
		notifications: make(map[int64]models.Notification),
	}
}

func (d *dataset) nextID() int64 {
	d.seq++
	return d.seq
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		seq:           d.seq,
		users:         make(map[int64]models.User, len(d.users)),
		events:        make(map[int64]models.Event, len(d.events)),
		tasks:         make(map[int64]models.Task, len(d.tasks)),
		rsvps:         make(map[int64]models.RSVP, len(d.rsvps)),
		invites:       make(map[int64]models.Invite, len(d.invites)),
		notifications: make(map[int64]models.Notification, len(d.notifications)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.events {
		c.events[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.rsvps {
		c.rsvps[k] = v
	}
	for k, v := range d.invites {
		c.invites[k] = v
	}
	for k, v := range d.notifications {
		c.notifications[k] = v
	}
	return c
}

// Store implements store.Store in memory.
type Store struct {
	mu     *sync.Mutex
	data   *dataset
	inTx   bool
	closed bool
	now    func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for created_at and similar timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New returns an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		mu:   &sync.Mutex{},
		data: newDataset(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// do runs fn against the dataset, locking unless already inside a transaction.
func (s *Store) do(fn func(d *dataset) error) error {
	if s.inTx {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// Users returns the UserStore.
func (s *Store) Users() store.UserStore { return &userStore{s: s} }

// Events returns the EventStore.
func (s *Store) Events() store.EventStore { return &eventStore{s: s} }

// Tasks returns the TaskStore.
func (s *Store) Tasks() store.TaskStore { return &taskStore{s: s} }

// RSVPs returns the RSVPStore.
func (s *Store) RSVPs() store.RSVPStore { return &rsvpStore{s: s} }

// Invites returns the InviteStore.
func (s *Store) Invites() store.InviteStore { return &inviteStore{s: s} }

// Notifications returns the NotificationStore.
func (s *Store) Notifications() store.NotificationStore { return &notificationStore{s: s} }

// WithTx executes fn against a private copy of the data and publishes the
// copy only if fn succeeds.
func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{mu: s.mu, data: s.data.clone(), inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// Ping reports ErrClosed once the store has been closed.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(func(*dataset) error {
		if s.closed {
			return ErrClosed
		}
		return nil
	})
}

// Close marks the store closed.
func (s *Store) Close() error {
	return s.do(func(*dataset) error {
		s.closed = true
		return nil
	})
}
