package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

func seedUser(t *testing.T, s store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func seedEvent(t *testing.T, s store.Store, owner *models.User, date time.Time) *models.Event {
	t.Helper()
	e := &models.Event{Title: "event", Date: date, OwnerID: owner.ID}
	if err := s.Events().Create(context.Background(), e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

// **Feature: event-planner, Property: Failed Transactions Leave No Trace**
// For any number of writes followed by an error, the store contents are
// unchanged after WithTx returns.
func TestWithTxAtomicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("rolled back writes are invisible", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			s := New()
			owner := seedUser(t, s, "owner")

			boom := errors.New("boom")
			err := s.WithTx(ctx, func(tx store.Store) error {
				for i := 0; i < n; i++ {
					if err := tx.Events().Create(ctx, &models.Event{Title: "x", Date: time.Now(), OwnerID: owner.ID}); err != nil {
						return err
					}
				}
				return boom
			})
			if !errors.Is(err, boom) {
				return false
			}

			upcoming, _ := s.Events().ListByOwner(ctx, owner.ID, store.ScopeUpcoming, time.Time{})
			return len(upcoming) == 0
		},
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := seedUser(t, s, "owner")

	err := s.WithTx(ctx, func(tx store.Store) error {
		return tx.Events().Create(ctx, &models.Event{Title: "kept", Date: time.Now(), OwnerID: owner.ID})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	events, err := s.Events().ListByOwner(ctx, owner.ID, store.ScopeUpcoming, time.Time{})
	if err != nil || len(events) != 1 || events[0].Creator != "owner" {
		t.Fatalf("expected committed event, got %v, %v", events, err)
	}
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := seedUser(t, s, "alice")

	if err := s.Users().Create(ctx, &models.User{Username: "alice", Email: "x@example.com"}); !errors.Is(err, store.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
	if err := s.Users().Create(ctx, &models.User{Username: "bob", Email: "alice@example.com"}); !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	event := seedEvent(t, s, owner, time.Now().Add(time.Hour))
	inv := &models.Invite{EventID: event.ID, InviterID: owner.ID, InviteeEmail: "guest@example.com"}
	if err := s.Invites().Create(ctx, inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	dup := &models.Invite{EventID: event.ID, InviterID: owner.ID, InviteeEmail: "guest@example.com"}
	if err := s.Invites().Create(ctx, dup); !errors.Is(err, store.ErrDuplicateInvite) {
		t.Errorf("expected ErrDuplicateInvite, got %v", err)
	}

	if err := s.RSVPs().Create(ctx, &models.RSVP{UserID: owner.ID, EventID: event.ID, Status: "going"}); err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	if err := s.RSVPs().Create(ctx, &models.RSVP{UserID: owner.ID, EventID: event.ID, Status: "maybe"}); !errors.Is(err, store.ErrDuplicateRSVP) {
		t.Errorf("expected ErrDuplicateRSVP, got %v", err)
	}
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := seedUser(t, s, "owner")
	guest := seedUser(t, s, "guest")

	ownedEvent := seedEvent(t, s, owner, time.Now().Add(time.Hour))
	guestEvent := seedEvent(t, s, guest, time.Now().Add(time.Hour))

	guestID := guest.ID
	received := &models.Invite{EventID: guestEvent.ID, InviterID: guest.ID, InviteeEmail: owner.Email, InviteeID: &owner.ID}
	sent := &models.Invite{EventID: ownedEvent.ID, InviterID: owner.ID, InviteeEmail: guest.Email, InviteeID: &guestID}
	for _, inv := range []*models.Invite{received, sent} {
		if err := s.Invites().Create(ctx, inv); err != nil {
			t.Fatalf("create invite: %v", err)
		}
	}
	if err := s.Notifications().Create(ctx, &models.Notification{UserID: owner.ID, Type: models.NotificationInvite, Title: "hi"}); err != nil {
		t.Fatalf("create notification: %v", err)
	}

	if err := s.Users().Delete(ctx, owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := s.Events().Get(ctx, ownedEvent.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("owned event should be gone, got %v", err)
	}
	if _, err := s.Invites().Get(ctx, sent.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("sent invite should be gone, got %v", err)
	}
	kept, err := s.Invites().Get(ctx, received.ID)
	if err != nil {
		t.Fatalf("received invite should remain: %v", err)
	}
	if kept.InviteeID != nil || kept.Invitee != nil {
		t.Errorf("received invite should lose its invitee, got %+v", kept)
	}
	notes, _ := s.Notifications().List(ctx, owner.ID, store.NotificationFilter{})
	if len(notes) != 0 {
		t.Errorf("notifications should be gone, got %d", len(notes))
	}
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	owner := seedUser(t, s, "owner")
	event := seedEvent(t, s, owner, time.Now().Add(time.Hour))

	got, _ := s.Events().Get(ctx, event.ID)
	got.Title = "mutated"

	again, _ := s.Events().Get(ctx, event.ID)
	if again.Title != "event" {
		t.Errorf("store state leaked through returned pointer: %q", again.Title)
	}
}

func TestPingAfterClose(t *testing.T) {
	s := New()
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	s.Close()
	if err := s.Ping(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
