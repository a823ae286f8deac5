package handlers

import (
	"log/slog"
	"net/http"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// ProfileHandler handles the caller's own account.
type ProfileHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(p *planner.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{planner: p, logger: logger}
}

type updateProfileRequest struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=80"`
	Email    *string `json:"email" validate:"omitnil,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.planner.GetUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "get profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Update handles PUT /profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.planner.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), planner.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "update profile", err)
		return
	}
	WriteJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /profile/delete.
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if err := h.planner.DeleteAccount(r.Context(), userID); err != nil {
		WriteServiceError(w, r, h.logger, "delete account", err)
		return
	}

	h.logger.Info("account deleted", "user_id", userID)
	WriteMessage(w, "account deleted")
}

// ChangePassword handles PUT /profile/change-password.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.planner.ChangePassword(r.Context(), middleware.GetUserID(r.Context()),
		req.CurrentPassword, req.NewPassword); err != nil {
		WriteServiceError(w, r, h.logger, "change password", err)
		return
	}
	WriteMessage(w, "password updated")
}
