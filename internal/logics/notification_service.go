package logics

import (
	"context"

	"duet-server/internal/models"
	"duet-server/internal/repositories"
	apperrors "duet-server/pkg/errors"
)

const defaultNotificationLimit = 50

// NotificationService exposes the user's in-app notification feed.
type NotificationService struct {
	notifications *repositories.NotificationRepository
}

func NewNotificationService(notifications *repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// ListNotifications returns the user's notifications, newest first.
func (ns *NotificationService) ListNotifications(ctx context.Context, userID string, includeRead bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := ns.notifications.FindForUser(ctx, userID, includeRead, int64(limit))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list notifications")
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (ns *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := ns.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "notification not found", err)
	}
	return nil
}
