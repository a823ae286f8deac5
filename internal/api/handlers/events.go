package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// EventHandler handles event endpoints.
type EventHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(p *planner.Service, logger *slog.Logger) *EventHandler {
	return &EventHandler{planner: p, logger: logger}
}

type createEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"max=200"`
}

type updateEventRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=200"`
	Description *string `json:"description"`
	Date        *string `json:"date" validate:"omitnil,min=1"`
	Location    *string `json:"location" validate:"omitnil,max=200"`
}

type inviteRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message"`
}

// List handles GET /events: the caller's upcoming events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.planner.ListUpcomingEvents(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "list events", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(events))
}

// ListPast handles GET /events/past.
func (h *EventHandler) ListPast(w http.ResponseWriter, r *http.Request) {
	events, err := h.planner.ListPastEvents(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "list past events", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(events))
}

// ListInvited handles GET /events/invited.
func (h *EventHandler) ListInvited(w http.ResponseWriter, r *http.Request) {
	events, err := h.planner.ListInvitedEvents(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "list invited events", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(events))
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.planner.CreateEvent(r.Context(), middleware.GetUserID(r.Context()), planner.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "create event", err)
		return
	}

	h.logger.Info("event created", "event_id", event.ID, "owner_id", event.OwnerID)
	WriteJSON(w, http.StatusCreated, event)
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.planner.GetEvent(r.Context(), middleware.GetUserID(r.Context()), eventID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "get event", err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

// Update handles PUT /events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.planner.UpdateEvent(r.Context(), middleware.GetUserID(r.Context()), eventID, planner.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "update event", err)
		return
	}
	WriteJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.planner.DeleteEvent(r.Context(), middleware.GetUserID(r.Context()), eventID); err != nil {
		WriteServiceError(w, r, h.logger, "delete event", err)
		return
	}

	h.logger.Info("event deleted", "event_id", eventID)
	WriteMessage(w, "event deleted")
}

// Invite handles POST /events/{id}/invite.
func (h *EventHandler) Invite(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req inviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invite, err := h.planner.SendInvite(r.Context(), middleware.GetUserID(r.Context()), eventID, planner.InviteInput{
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "send invite", err)
		return
	}
	WriteJSON(w, http.StatusCreated, invite)
}
