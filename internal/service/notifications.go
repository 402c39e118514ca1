package service

import (
	"context"

	"github.com/pbv-society/societyhub/internal/apperr"
	"github.com/pbv-society/societyhub/internal/models"
	"github.com/pbv-society/societyhub/internal/storage"
)

// NotificationList is a user's notifications plus the unread count.
type NotificationList struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

// NotificationService serves operator notifications. Notifications are
// created by backend jobs; this service only lists them and flips the
// read flag.
type NotificationService struct {
	store storage.NotificationStore
}

// NewNotificationService creates the notification service.
func NewNotificationService(store storage.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns the user's notifications, newest first, with the unread count.
func (s *NotificationService) List(ctx context.Context, userID string) (*NotificationList, error) {
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.UpstreamFailure, "failed to list notifications", err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}

	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}

// MarkRead flips one notification's read flag.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if id == "" {
		return apperr.New(apperr.ValidationError, "notification id is required")
	}
	if err := s.store.MarkNotificationRead(ctx, id, userID); err != nil {
		return apperr.Wrap(apperr.UpstreamFailure, "failed to mark notification read", err)
	}
	return nil
}

// MarkAllRead flips all of the user's unread notifications.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllNotificationsRead(ctx, userID); err != nil {
		return apperr.Wrap(apperr.UpstreamFailure, "failed to mark notifications read", err)
	}
	return nil
}
