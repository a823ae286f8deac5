package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// InviteHandler handles the invitee side of invites.
type InviteHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewInviteHandler creates a new invite handler.
func NewInviteHandler(p *planner.Service, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{planner: p, logger: logger}
}

type respondInviteRequest struct {
	Status  string `json:"status" validate:"required,oneof=accepted declined"`
	Message string `json:"message"`
}

// ListReceived handles GET /invites.
func (h *InviteHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	invites, err := h.planner.ListReceivedInvites(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "list invites", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(invites))
}

// ListSent handles GET /invites/sent.
func (h *InviteHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	invites, err := h.planner.ListSentInvites(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "list sent invites", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(invites))
}

// Respond handles POST /invites/{id}/respond.
func (h *InviteHandler) Respond(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req respondInviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	invite, err := h.planner.RespondInvite(r.Context(), middleware.GetUserID(r.Context()), inviteID,
		models.InviteStatus(req.Status), req.Message)
	if err != nil {
		WriteServiceError(w, r, h.logger, "respond to invite", err)
		return
	}
	WriteJSON(w, http.StatusOK, invite)
}

// Cancel handles DELETE /invites/{id}/cancel.
func (h *InviteHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.planner.CancelInvite(r.Context(), middleware.GetUserID(r.Context()), inviteID); err != nil {
		WriteServiceError(w, r, h.logger, "cancel invite", err)
		return
	}
	WriteMessage(w, "invite cancelled")
}
