package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genInviteStatus() gopter.Gen {
	return gen.OneConstOf(InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined)
}

// genTime generates a random time truncated to second precision.
func genTime() gopter.Gen {
	return gen.Int64Range(0, 2000000000).Map(func(secs int64) time.Time {
		return time.Unix(secs, 0).UTC()
	})
}

// TestInviteRespondTransitions checks that only a pending invite can be
// answered, and only with accepted or declined.
func TestInviteRespondTransitions(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	answers := gen.OneConstOf(
		InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined,
		InviteStatus("maybe"), InviteStatus(""),
	)

	properties.Property("respond succeeds only from pending to a terminal status", prop.ForAll(
		func(from, to InviteStatus, message string, at time.Time) bool {
			inv := &Invite{Status: from, Message: "original"}
			err := inv.Respond(to, message, at)

			wantOK := from == InviteStatusPending && to.IsResponse()
			if !wantOK {
				// Rejected transitions leave the invite untouched.
				return err != nil && errors.Is(err, ErrValidation) &&
					inv.Status == from && inv.Message == "original" && inv.RespondedAt == nil
			}
			return err == nil &&
				inv.Status == to &&
				inv.Message == message &&
				inv.RespondedAt != nil && inv.RespondedAt.Equal(at) &&
				!inv.IsPending()
		},
		genInviteStatus(),
		answers,
		gen.AlphaString(),
		genTime(),
	))

	properties.TestingRun(t)
}

func TestInviteIsInvitee(t *testing.T) {
	id := int64(7)
	tests := []struct {
		name      string
		inviteeID *int64
		userID    int64
		want      bool
	}{
		{"unresolved invitee", nil, 7, false},
		{"matching user", &id, 7, true},
		{"other user", &id, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invite{InviteeID: tt.inviteeID}
			if got := inv.IsInvitee(tt.userID); got != tt.want {
				t.Errorf("IsInvitee(%d) = %v, want %v", tt.userID, got, tt.want)
			}
		})
	}
}

func TestEventOwnershipAndPast(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("only the owner id owns the event", prop.ForAll(
		func(owner, other int64) bool {
			e := &Event{OwnerID: owner}
			return e.IsOwnedBy(owner) && (owner == other || !e.IsOwnedBy(other))
		},
		gen.Int64Range(1, 1000),
		gen.Int64Range(1, 1000),
	))

	properties.Property("an event is past exactly when its date is before now", prop.ForAll(
		func(date, now time.Time) bool {
			e := &Event{Date: date}
			return e.IsPast(now) == date.Before(now)
		},
		genTime(),
		genTime(),
	))

	properties.TestingRun(t)

	var nilEvent *Event
	if nilEvent.IsOwnedBy(1) {
		t.Error("nil event must not be owned")
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	var err error = &ValidationError{Field: "title", Message: "title is required"}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}
	if got := err.Error(); got != "title: title is required" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUserJSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: 1, Username: "alice", Email: "a@example.com", PasswordHash: "$2a$10$secret"}
	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "password") {
		t.Errorf("password hash leaked: %s", data)
	}
}

func TestTaskDueDateEncodesNull(t *testing.T) {
	data, err := json.Marshal(Task{ID: 1, Title: "Book venue"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, ok := out["due_date"]
	if !ok || v != nil {
		t.Errorf("due_date = %v (present %v), want null", v, ok)
	}
}

func TestInvitedEventFlattensEventFields(t *testing.T) {
	e := InvitedEvent{
		Event:        Event{ID: 3, Title: "Launch", Creator: "bob"},
		InviteID:     9,
		InviteStatus: InviteStatusPending,
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["title"] != "Launch" || out["creator"] != "bob" {
		t.Errorf("event fields not flattened: %s", data)
	}
	if out["invite_status"] != "pending" || out["invite_id"] != float64(9) {
		t.Errorf("invite fields missing: %s", data)
	}
}
