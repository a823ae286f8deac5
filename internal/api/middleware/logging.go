// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/narvanalabs/eventplanner/pkg/logger"
)

// userSlot lets Authenticate, which runs deeper in the chain, report the
// resolved user back to RequestLogger.
type userSlot struct {
	id int64
}

const userSlotKey contextKey = "user_slot"

func recordUser(ctx context.Context, userID int64) {
	if slot, ok := ctx.Value(userSlotKey).(*userSlot); ok {
		slot.id = userID
	}
}

// RequestLogger returns a middleware that logs HTTP requests. It also copies
// chi's request ID into the context so pkg/logger can pick it up.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			requestID := middleware.GetReqID(r.Context())
			slot := &userSlot{}
			ctx := logger.ContextWithRequestID(r.Context(), requestID)
			ctx = context.WithValue(ctx, userSlotKey, slot)

			defer func() {
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start).String(),
					"request_id", requestID,
					"remote_addr", r.RemoteAddr,
				}
				if slot.id != 0 {
					attrs = append(attrs, "user_id", slot.id)
				}
				log.Info("request completed", attrs...)
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}
