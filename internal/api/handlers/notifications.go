package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/planner"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// NotificationHandler handles the notification endpoints under /rsvps.
type NotificationHandler struct {
	planner *planner.Service
	logger  *slog.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(p *planner.Service, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{planner: p, logger: logger}
}

var notificationTypes = map[models.NotificationType]bool{
	models.NotificationInvite:          true,
	models.NotificationInviteResponse:  true,
	models.NotificationInviteCancelled: true,
	models.NotificationRSVPNew:         true,
	models.NotificationRSVPUpdate:      true,
}

// List handles GET /rsvps/notifications?unread=true&type=a,b.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter store.NotificationFilter

	q := r.URL.Query()
	if v := q.Get("unread"); v != "" {
		unread, err := strconv.ParseBool(v)
		if err != nil {
			WriteBadRequest(w, r, "unread must be true or false")
			return
		}
		filter.UnreadOnly = unread
	}
	if v := q.Get("type"); v != "" {
		for _, part := range strings.Split(v, ",") {
			t := models.NotificationType(strings.TrimSpace(part))
			if t == "" {
				continue
			}
			if !notificationTypes[t] {
				WriteBadRequest(w, r, "unknown notification type "+strconv.Quote(string(t)))
				return
			}
			filter.Types = append(filter.Types, t)
		}
	}

	notifications, err := h.planner.ListNotifications(r.Context(), middleware.GetUserID(r.Context()), filter)
	if err != nil {
		WriteServiceError(w, r, h.logger, "list notifications", err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(notifications))
}

// MarkRead handles PUT /rsvps/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.planner.MarkNotificationRead(r.Context(), middleware.GetUserID(r.Context()), notificationID); err != nil {
		WriteServiceError(w, r, h.logger, "mark notification read", err)
		return
	}
	WriteMessage(w, "notification marked as read")
}

// MarkAllRead handles PUT /rsvps/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.planner.MarkAllNotificationsRead(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, r, h.logger, "mark all notifications read", err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "notifications marked as read",
		"updated": n,
	})
}
