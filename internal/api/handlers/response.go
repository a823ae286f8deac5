package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/eventplanner/internal/api/errors"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// MessageResponse is the body of operations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	apierrors.WriteJSON(w, status, data)
}

// WriteMessage writes a 200 {"message": ...} response.
func WriteMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// WriteAPIError writes err stamped with the request's ID.
func WriteAPIError(w http.ResponseWriter, r *http.Request, err *apierrors.APIError) {
	apierrors.WriteErrorWithRequestID(w, err, middleware.GetReqID(r.Context()))
}

// WriteBadRequest writes a 400 VALIDATION_ERROR response.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	WriteAPIError(w, r, apierrors.NewValidationError(message))
}

// WriteNotFound writes a 404 response.
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteAPIError(w, r, apierrors.NewNotFoundError(message))
}

// toAPIError classifies a planner error. Unclassified errors become a
// generic 500 and the second return value is false.
func toAPIError(err error) (*apierrors.APIError, bool) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return apierrors.AddFieldError(verr.Field, verr.Message).ToAPIError(), true
	}

	var perr *planner.Error
	if errors.As(err, &perr) {
		switch {
		case errors.Is(perr, planner.ErrNotFound):
			return apierrors.NewNotFoundError(perr.Message), true
		case errors.Is(perr, planner.ErrForbidden):
			return apierrors.NewForbiddenError(perr.Message), true
		case errors.Is(perr, planner.ErrConflict):
			return apierrors.NewConflictError(perr.Message), true
		case errors.Is(perr, planner.ErrInvalidCredentials):
			return apierrors.NewUnauthorizedError(perr.Message), true
		}
	}

	return apierrors.NewInternalError("internal server error"), false
}

// WriteServiceError maps a planner error to its API response. Unexpected
// failures are logged at error level; client errors only at debug.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	apiErr, known := toAPIError(err)
	requestID := middleware.GetReqID(r.Context())
	if known {
		logger.Debug(op+" rejected", "error", err, "request_id", requestID)
	} else {
		logger.Error(op+" failed", "error", err, "request_id", requestID, "path", r.URL.Path)
	}
	apierrors.WriteErrorWithRequestID(w, apiErr, requestID)
}

// pathID reads a positive integer URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, r, "invalid "+name)
		return 0, false
	}
	return id, true
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
