package planner

import (
	"context"

	"github.com/narvanalabs/eventplanner/internal/models"
	"github.com/narvanalabs/eventplanner/internal/store"
)

// ListNotifications lists the user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID int64, filter store.NotificationFilter) ([]*models.Notification, error) {
	return s.store.Notifications().List(ctx, userID, filter)
}

// MarkNotificationRead marks one of the user's notifications read.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID int64) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		return translate(tx.Notifications().MarkRead(ctx, notificationID, userID), "notification")
	})
}

// MarkAllNotificationsRead marks all of the user's notifications read and
// returns how many changed.
func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		n, err = tx.Notifications().MarkAllRead(ctx, userID)
		return err
	})
	return n, err
}
