package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// ListNotificationsInput defines pagination for a user's notification log.
type ListNotificationsInput struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// NotificationUsecase manages the append-only per-user notification log.
// Entries are immutable once written except for the read flag.
type NotificationUsecase interface {
	// Append writes a notification to the user's log and pushes it to the
	// user's devices on a best-effort basis.
	Append(ctx context.Context, userID uuid.UUID, message string) (*entity.Notification, error)

	ListNotifications(ctx context.Context, input *ListNotificationsInput) ([]*entity.Notification, error)

	// MarkRead flips the read flag on one of the caller's notifications.
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}
