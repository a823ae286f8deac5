package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	apierrors "github.com/narvanalabs/eventplanner/internal/api/errors"
	"github.com/narvanalabs/eventplanner/internal/auth"
	"github.com/narvanalabs/eventplanner/pkg/logger"
)

type contextKey string

// UsernameKey is the context key for the username carried by the token.
const UsernameKey contextKey = "username"

// GetUserID returns the authenticated user ID, or 0 outside Authenticate.
func GetUserID(ctx context.Context) int64 {
	id, _ := logger.UserIDFromContext(ctx)
	return id
}

// GetUsername returns the username claim of the authenticated token.
func GetUsername(ctx context.Context) string {
	if v, ok := ctx.Value(UsernameKey).(string); ok {
		return v
	}
	return ""
}

// WithUser returns a context carrying an authenticated identity.
func WithUser(ctx context.Context, userID int64, username string) context.Context {
	ctx = logger.ContextWithUserID(ctx, userID)
	return context.WithValue(ctx, UsernameKey, username)
}

// AuthMiddleware resolves bearer tokens to a user identity.
type AuthMiddleware struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(authService *auth.Service, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		logger:      logger,
	}
}

// Authenticate rejects requests without a valid bearer token before the
// wrapped handler runs.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		token := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			apierrors.WriteErrorWithRequestID(w, apierrors.NewUnauthorizedError("missing authentication"), requestID)
			return
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			m.logger.Debug("token validation failed", "error", err, "request_id", requestID)
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			apierrors.WriteErrorWithRequestID(w, apierrors.NewUnauthorizedError(msg), requestID)
			return
		}

		recordUser(r.Context(), claims.UserID)
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Username)))
	})
}
