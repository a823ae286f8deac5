package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// RSVPHandler handles RSVP endpoints.
type RSVPHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewRSVPHandler creates a new RSVP handler.
func NewRSVPHandler(p *planner.Service, logger *slog.Logger) *RSVPHandler {
	return &RSVPHandler{planner: p, logger: logger}
}

type rsvpRequest struct {
	Status  string  `json:"status" validate:"required,max=20"`
	Message *string `json:"message"`
}

// List handles GET /rsvps/event/{id}.
func (h *RSVPHandler) List(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rsvps, err := h.planner.ListRSVPs(r.Context(), middleware.GetUserID(r.Context()), eventID)
	if err != nil {
		WriteServiceError(w, r, h.logger, "list rsvps", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(rsvps))
}

// Upsert handles POST /rsvps/event/{id}. The first RSVP answers 201, later
// ones update it in place and answer 200.
func (h *RSVPHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req rsvpRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rsvp, created, err := h.planner.UpsertRSVP(r.Context(), middleware.GetUserID(r.Context()), eventID, planner.RSVPInput{
		Status:  req.Status,
		Message: req.Message,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "rsvp", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, rsvp)
}
