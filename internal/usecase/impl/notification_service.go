package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "plowline/internal/delivery/context"
	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/domain/service"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
	pushTitle                = "Plowline"
)

// notificationService implements the NotificationUsecase interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	push             service.PushSender
	logger           *slog.Logger
}

// NotificationServiceParams holds dependencies for notificationService, injected by Fx.
type NotificationServiceParams struct {
	fx.In

	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Push             service.PushSender
	Logger           *slog.Logger
}

// NewNotificationService is the constructor for notificationService.
func NewNotificationService(params NotificationServiceParams) usecase.NotificationUsecase {
	return &notificationService{
		notificationRepo: params.NotificationRepo,
		userRepo:         params.UserRepo,
		push:             params.Push,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *notificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Append writes a notification to the user's log, then pushes it on a
// best-effort basis. The log write is the source of truth.
func (srv *notificationService) Append(ctx context.Context, userID uuid.UUID, message string) (*entity.Notification, error) {
	if _, err := srv.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "notification recipient not found")
		}

		return nil, errors.Wrap(err, "failed to load notification recipient")
	}

	notification := &entity.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := srv.notificationRepo.CreateNotification(ctx, notification); err != nil {
		srv.log(ctx).Error("Failed to append notification", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to append notification")
	}

	if err := srv.push.SendToUser(ctx, userID.String(), pushTitle, message, map[string]string{
		"notification_id": notification.ID.String(),
	}); err != nil {
		srv.log(ctx).Warn("Push delivery failed", slog.Any("userID", userID), slog.Any("error", err))
	}

	return notification, nil
}

// ListNotifications returns a page of the caller's log, newest first.
func (srv *notificationService) ListNotifications(ctx context.Context, input *usecase.ListNotificationsInput) ([]*entity.Notification, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	notifications, err := srv.notificationRepo.FindNotificationsByUser(ctx, input.UserID, limit, offset)
	if err != nil {
		srv.log(ctx).Error("Failed to list notifications", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list notifications")
	}

	return notifications, nil
}

// MarkRead flips the read flag on one of the caller's notifications.
func (srv *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := srv.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return errors.Wrap(domainerrors.ErrNotificationNotFound, "mark read failed")
		}
		srv.log(ctx).Error("Failed to mark notification read", slog.Any("userID", userID), slog.Any("notificationID", notificationID), slog.Any("error", err))

		return errors.Wrap(err, "failed to mark notification read")
	}

	return nil
}
