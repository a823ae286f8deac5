// Package handlers provides HTTP handlers for the API.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/narvanalabs/eventplanner/internal/api/errors"
	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	planner     *planner.Service
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(p *planner.Service, authSvc *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		planner:     p,
		authService: authSvc,
		logger:      logger,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.planner.Register(r.Context(), planner.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		WriteServiceError(w, r, h.logger, "register", err)
		return
	}

	h.writeToken(w, r, http.StatusCreated, user)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.planner.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteServiceError(w, r, h.logger, "login", err)
		return
	}

	h.writeToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err, "user_id", user.ID)
		WriteAPIError(w, r, apierrors.NewInternalError("failed to generate token"))
		return
	}
	WriteJSON(w, status, TokenResponse{AccessToken: token, User: user})
}
