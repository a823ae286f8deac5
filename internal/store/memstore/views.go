package memstore

import (
	"fmt"
	"time"

	"github.com/narvanalabs/eventplanner/internal/models"
)

func errMissing(what string, id int64) error {
	return fmt.Errorf("memstore: %s %d does not exist", what, id)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyInt64(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (d *dataset) eventView(e models.Event) *models.Event {
	e.Creator = d.users[e.OwnerID].Username
	e.TasksCount = 0
	e.RSVPsCount = 0
	for _, t := range d.tasks {
		if t.EventID == e.ID {
			e.TasksCount++
		}
	}
	for _, r := range d.rsvps {
		if r.EventID == e.ID {
			e.RSVPsCount++
		}
	}
	return &e
}

func (d *dataset) inviteView(inv models.Invite) *models.Invite {
	event := d.events[inv.EventID]
	inv.EventTitle = event.Title
	inv.EventDate = event.Date
	inv.Inviter = d.users[inv.InviterID].Username
	inv.Invitee = nil
	if inv.InviteeID != nil {
		if u, ok := d.users[*inv.InviteeID]; ok {
			name := u.Username
			inv.Invitee = &name
		}
	}
	inv.InviteeID = copyInt64(inv.InviteeID)
	inv.RespondedAt = copyTime(inv.RespondedAt)
	return &inv
}

func (d *dataset) rsvpView(r models.RSVP) *models.RSVP {
	r.Username = d.users[r.UserID].Username
	r.EventTitle = d.events[r.EventID].Title
	r.Message = copyString(r.Message)
	return &r
}

// deleteEvent removes an event and its dependent rows.
func (d *dataset) deleteEvent(id int64) {
	delete(d.events, id)
	for tid, t := range d.tasks {
		if t.EventID == id {
			delete(d.tasks, tid)
		}
	}
	for rid, r := range d.rsvps {
		if r.EventID == id {
			delete(d.rsvps, rid)
		}
	}
	for iid, inv := range d.invites {
		if inv.EventID == id {
			delete(d.invites, iid)
		}
	}
}
