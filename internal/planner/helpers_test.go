package planner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
	"github.com/narvanalabs/eventplanner/internal/store/memstore"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *memstore.Store) {
	st := memstore.New(memstore.WithClock(func() time.Time { return testNow }))
	return NewService(st, WithClock(func() time.Time { return testNow })), st
}

// addUser inserts a user directly, skipping bcrypt.
func addUser(t *testing.T, st store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: fmt.Sprintf("%s@example.com", name), PasswordHash: "x"}
	if err := st.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func addEvent(t *testing.T, svc *Service, owner *models.User, title string) *models.Event {
	t.Helper()
	e, err := svc.CreateEvent(context.Background(), owner.ID, EventInput{
		Title: title,
		Date:  testNow.Add(48 * time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return e
}

func countNotifications(t *testing.T, svc *Service, userID int64) int {
	t.Helper()
	list, err := svc.ListNotifications(context.Background(), userID, store.NotificationFilter{})
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	return len(list)
}
