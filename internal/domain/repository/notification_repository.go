// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when a notification is not found for the owner.
var ErrNotificationNotFound = errors.New("notification not found")

// NotificationRepository defines persistence for the per-user notification
// log. The log is append-only: entries are created, listed and flagged read,
// never edited or removed.
type NotificationRepository interface {
	// CreateNotification appends a new entry to a user's log.
	CreateNotification(ctx context.Context, notification *entity.Notification) error

	// FindNotificationsByUser retrieves a user's log in append order, newest first.
	FindNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error)

	// MarkRead flips the read flag on one entry scoped to its owner.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
}
