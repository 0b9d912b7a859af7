package handler

import (
	"log/slog"
	"net/http"

	"plowline/internal/delivery/http/response"
	"plowline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NotificationHandler holds dependencies for notification log endpoints.
type NotificationHandler struct {
	uc     usecase.NotificationUsecase
	logger *slog.Logger
}

// NewNotificationHandler is the constructor for NotificationHandler, injected by Fx.
func NewNotificationHandler(uc usecase.NotificationUsecase, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListNotifications returns a page of the caller's notification log, newest first.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	limit, offset := listParams(c)

	notifications, err := h.uc.ListNotifications(c.Request().Context(), &usecase.ListNotificationsInput{
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, notifications, "Notifications retrieved successfully")
}

// MarkRead flips the read flag on one of the caller's notifications.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, ok := callerID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	notificationID, err := pathUUID(c, "notificationId")
	if err != nil {
		return response.BadRequest(c, "INVALID_NOTIFICATION_ID", "Invalid notification ID format")
	}

	if err := h.uc.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Notification marked as read"}, "Notification updated successfully")
}
