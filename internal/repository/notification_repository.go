package repository

import (
	"context"
	"errors"

	"research-link-be/internal/model"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a read targets a notification
// the user does not own, or one that never existed.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository persists the inbox and exposes the registry of
// notification types seeded at install time.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error

	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
}
