package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// getTestDSN returns the test database DSN from environment.
func getTestDSN() string {
	return os.Getenv("TEST_DATABASE_URL")
}

// setupTestStore connects to the test database, applies migrations and
// empties every table.
func setupTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := getTestDSN()
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewPostgresStore(DefaultConfig(dsn), logger)
	if err != nil {
		t.Skipf("failed to connect to database: %v", err)
	}

	if err := s.Migrate(context.Background()); err != nil {
		s.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	resetTables(t, s)

	t.Cleanup(func() {
		resetTables(t, s)
		s.Close()
	})
	return s
}

func resetTables(t *testing.T, s *PostgresStore) {
	t.Helper()
	if _, err := s.DB().Exec(`TRUNCATE notifications, invites, rsvps, tasks, events, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func mustCreateUser(t *testing.T, s store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	if err := s.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func mustCreateEvent(t *testing.T, s store.Store, owner *models.User, title string, date time.Time) *models.Event {
	t.Helper()
	e := &models.Event{Title: title, Date: date, OwnerID: owner.ID}
	if err := s.Events().Create(context.Background(), e); err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return e
}

func TestUserUniqueness(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, s, "alice")

	err := s.Users().Create(ctx, &models.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	if !errors.Is(err, store.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}

	err = s.Users().Create(ctx, &models.User{Username: "other", Email: "alice@example.com", PasswordHash: "x"})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

// **Feature: event-planner, Property: Single RSVP Per User And Event**
// For any sequence of RSVP statuses, at most one row exists per (user, event)
// and a second insert is rejected with ErrDuplicateRSVP.
func TestRSVPUniqueness(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner")
	guest := mustCreateUser(t, s, "guest")

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("second insert for the same pair is rejected", prop.ForAll(
		func(first, second string) bool {
			event := mustCreateEvent(t, s, owner, "party", time.Now().Add(time.Hour))

			if err := s.RSVPs().Create(ctx, &models.RSVP{UserID: guest.ID, EventID: event.ID, Status: first}); err != nil {
				t.Logf("first create: %v", err)
				return false
			}
			err := s.RSVPs().Create(ctx, &models.RSVP{UserID: guest.ID, EventID: event.ID, Status: second})
			if !errors.Is(err, store.ErrDuplicateRSVP) {
				t.Logf("expected ErrDuplicateRSVP, got %v", err)
				return false
			}

			rsvps, err := s.RSVPs().ListByEvent(ctx, event.ID)
			if err != nil {
				return false
			}
			return len(rsvps) == 1 && rsvps[0].Status == first && rsvps[0].Username == "guest"
		},
		gen.OneConstOf("going", "maybe", "not going"),
		gen.OneConstOf("going", "maybe", "not going"),
	))

	properties.TestingRun(t)
}

func TestInviteUniquenessAndLinking(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner")
	event := mustCreateEvent(t, s, owner, "launch", time.Now().Add(24*time.Hour))

	inv := &models.Invite{EventID: event.ID, InviterID: owner.ID, InviteeEmail: "late@example.com"}
	if err := s.Invites().Create(ctx, inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	if inv.Status != models.InviteStatusPending {
		t.Errorf("expected pending status, got %s", inv.Status)
	}

	dup := &models.Invite{EventID: event.ID, InviterID: owner.ID, InviteeEmail: "late@example.com"}
	if err := s.Invites().Create(ctx, dup); !errors.Is(err, store.ErrDuplicateInvite) {
		t.Fatalf("expected ErrDuplicateInvite, got %v", err)
	}

	late := mustCreateUser(t, s, "late")
	n, err := s.Invites().LinkInvitee(ctx, late.Email, late.ID)
	if err != nil || n != 1 {
		t.Fatalf("LinkInvitee = %d, %v; want 1, nil", n, err)
	}

	ok, err := s.Invites().ExistsForInvitee(ctx, event.ID, late.ID)
	if err != nil || !ok {
		t.Fatalf("ExistsForInvitee = %v, %v; want true", ok, err)
	}

	got, err := s.Invites().Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get invite: %v", err)
	}
	if got.Invitee == nil || *got.Invitee != "late" || got.Inviter != "owner" || got.EventTitle != "launch" {
		t.Errorf("unexpected invite view: %+v", got)
	}
}

func TestEventDeleteCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner")
	guest := mustCreateUser(t, s, "guest")
	event := mustCreateEvent(t, s, owner, "picnic", time.Now().Add(time.Hour))

	task := &models.Task{EventID: event.ID, Title: "buy food"}
	if err := s.Tasks().Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := s.RSVPs().Create(ctx, &models.RSVP{UserID: guest.ID, EventID: event.ID, Status: "going"}); err != nil {
		t.Fatalf("create rsvp: %v", err)
	}
	guestID := guest.ID
	inv := &models.Invite{EventID: event.ID, InviterID: owner.ID, InviteeEmail: guest.Email, InviteeID: &guestID}
	if err := s.Invites().Create(ctx, inv); err != nil {
		t.Fatalf("create invite: %v", err)
	}

	got, err := s.Events().Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got.TasksCount != 1 || got.RSVPsCount != 1 || got.Creator != "owner" {
		t.Errorf("unexpected event view: %+v", got)
	}

	if err := s.Events().Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	if _, err := s.Tasks().Get(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("task should be gone, got %v", err)
	}
	if _, err := s.RSVPs().Get(ctx, guest.ID, event.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rsvp should be gone, got %v", err)
	}
	if _, err := s.Invites().Get(ctx, inv.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("invite should be gone, got %v", err)
	}
}

func TestTaskOrderingNullsLast(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	owner := mustCreateUser(t, s, "owner")
	event := mustCreateEvent(t, s, owner, "wedding", time.Now().Add(48*time.Hour))

	later := time.Now().Add(10 * time.Hour).UTC().Truncate(time.Second)
	sooner := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	for i, due := range []*time.Time{nil, &later, &sooner} {
		if err := s.Tasks().Create(ctx, &models.Task{EventID: event.ID, Title: fmt.Sprintf("t%d", i), DueDate: due}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	tasks, err := s.Tasks().ListByEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	want := []string{"t2", "t1", "t0"}
	for i, task := range tasks {
		if task.Title != want[i] {
			t.Errorf("position %d: got %s, want %s", i, task.Title, want[i])
		}
	}
}

func TestNotificationFiltersAndScoping(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")

	types := []models.NotificationType{models.NotificationInvite, models.NotificationRSVPNew, models.NotificationInvite}
	var ids []int64
	for _, typ := range types {
		n := &models.Notification{UserID: alice.ID, Type: typ, Title: string(typ)}
		if err := s.Notifications().Create(ctx, n); err != nil {
			t.Fatalf("create notification: %v", err)
		}
		ids = append(ids, n.ID)
	}

	if err := s.Notifications().MarkRead(ctx, ids[0], bob.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("marking another user's notification: got %v, want ErrNotFound", err)
	}
	if err := s.Notifications().MarkRead(ctx, ids[0], alice.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := s.Notifications().List(ctx, alice.ID, store.NotificationFilter{UnreadOnly: true})
	if err != nil || len(unread) != 2 {
		t.Fatalf("unread = %d, %v; want 2", len(unread), err)
	}

	invites, err := s.Notifications().List(ctx, alice.ID, store.NotificationFilter{Types: []models.NotificationType{models.NotificationInvite}})
	if err != nil || len(invites) != 2 {
		t.Fatalf("invite notifications = %d, %v; want 2", len(invites), err)
	}
	if invites[0].ID != ids[2] {
		t.Errorf("expected newest first, got id %d", invites[0].ID)
	}

	n, err := s.Notifications().MarkAllRead(ctx, alice.ID)
	if err != nil || n != 2 {
		t.Errorf("MarkAllRead = %d, %v; want 2", n, err)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Users().Create(ctx, &models.User{Username: "ghost", Email: "ghost@example.com", PasswordHash: "x"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := s.Users().GetByUsername(ctx, "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("user should not exist after rollback, got %v", err)
	}
}
