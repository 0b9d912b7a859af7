package impl

import (
	"context"
	"testing"

	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationHarness(t *testing.T) (usecase.NotificationUsecase, *fakeStores, uuid.UUID) {
	t.Helper()

	stores := newFakeStores()
	user := &entity.User{
		Name:            "Dana Frost",
		Email:           "dana@example.com",
		CustomerProfile: &entity.CustomerProfile{},
	}
	require.NoError(t, (&fakeUserRepo{stores}).Create(context.Background(), user))

	svc := NewNotificationService(NotificationServiceParams{
		NotificationRepo: &fakeNotificationRepo{stores},
		UserRepo:         &fakeUserRepo{stores},
		Push:             stubPush{},
		Logger:           testLogger(),
	})

	return svc, stores, user.ID
}

func TestNotificationService_AppendAndList(t *testing.T) {
	svc, _, userID := newNotificationHarness(t)
	ctx := context.Background()

	first, err := svc.Append(ctx, userID, "request accepted")
	require.NoError(t, err)
	assert.False(t, first.Read)

	_, err = svc.Append(ctx, userID, "request started")
	require.NoError(t, err)

	listed, err := svc.ListNotifications(ctx, &usecase.ListNotificationsInput{UserID: userID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	// Newest first.
	assert.Equal(t, "request started", listed[0].Message)
	assert.Equal(t, "request accepted", listed[1].Message)
}

func TestNotificationService_Append_UserVanished(t *testing.T) {
	svc, _, _ := newNotificationHarness(t)

	_, err := svc.Append(context.Background(), uuid.New(), "hello?")

	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, stores, userID := newNotificationHarness(t)
	ctx := context.Background()

	appended, err := svc.Append(ctx, userID, "request completed")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, userID, appended.ID))
	assert.True(t, stores.notifications[0].Read)
	// Only the read flag moved.
	assert.Equal(t, "request completed", stores.notifications[0].Message)

	// A different owner cannot flip someone else's flag.
	err = svc.MarkRead(ctx, uuid.New(), appended.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotificationNotFound)
}

func TestNotificationService_List_Pagination(t *testing.T) {
	svc, _, userID := newNotificationHarness(t)
	ctx := context.Background()

	for _, msg := range []string{"one", "two", "three"} {
		_, err := svc.Append(ctx, userID, msg)
		require.NoError(t, err)
	}

	page, err := svc.ListNotifications(ctx, &usecase.ListNotificationsInput{UserID: userID, Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "two", page[0].Message)
	assert.Equal(t, "one", page[1].Message)
}
