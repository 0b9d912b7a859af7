package impl

import (
	"context"
	"testing"
	"time"

	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartHarness(t *testing.T, weather *stubWeather) (usecase.CartUsecase, *fakeStores) {
	t.Helper()

	stores := newFakeStores()
	svc := NewCartService(CartServiceParams{
		TxManager: &fakeTxManager{stores: stores},
		CartRepo:  &fakeCartRepo{stores},
		Weather:   weather,
		Uploads:   stubUploads{},
		Logger:    testLogger(),
	})

	return svc, stores
}

func snowyWeather() *stubWeather {
	return &stubWeather{snapshot: entity.WeatherSnapshot{
		TemperatureF: 28,
		Type:         entity.PrecipitationSnow,
		Intensity:    entity.IntensityModerate,
		CapturedAt:   time.Now(),
	}}
}

func TestCartService_AddItem_QuotesServerSidePrice(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())
	userID := uuid.New()

	// Moderate snow below freezing on a large driveway: 15 * 1.3 * 1.5 = 29.25.
	item, err := svc.AddItem(context.Background(), &usecase.AddItemInput{
		UserID:                userID,
		ServiceType:           entity.ServiceTypeDriveway,
		JobSize:               entity.JobSizeLarge,
		DrivewaySquareFootage: 400,
		Latitude:              42.88,
		Longitude:             -78.87,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2925), item.PriceCents)
	assert.Equal(t, userID, item.UserID)
	assert.NotEqual(t, uuid.Nil, item.ID)
}

func TestCartService_AddItem_ObservationFailureFallsBackToClearWeather(t *testing.T) {
	svc, _ := newCartHarness(t, &stubWeather{err: context.DeadlineExceeded})

	item, err := svc.AddItem(context.Background(), &usecase.AddItemInput{
		UserID:      uuid.New(),
		ServiceType: entity.ServiceTypeCar,
		JobSize:     entity.JobSizeMedium,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1800), item.PriceCents) // 15 * 1.0 * 1.2
}

func TestCartService_AddItem_UnknownServiceType(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())

	_, err := svc.AddItem(context.Background(), &usecase.AddItemInput{
		UserID:      uuid.New(),
		ServiceType: entity.ServiceType("rooftop"),
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_GetCart_TotalsItems(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())
	userID := uuid.New()
	ctx := context.Background()

	for _, size := range []entity.JobSize{entity.JobSizeSmall, entity.JobSizeMedium} {
		_, err := svc.AddItem(ctx, &usecase.AddItemInput{
			UserID:      userID,
			ServiceType: entity.ServiceTypeLawn,
			JobSize:     size,
		})
		require.NoError(t, err)
	}

	cart, err := svc.GetCart(ctx, userID)

	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	// 15*1.3*1.0 + 15*1.3*1.2 = 19.50 + 23.40.
	assert.Equal(t, int64(1950+2340), cart.TotalCents)
}

func TestCartService_UpdateItem_MergesPatchOnly(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())
	userID := uuid.New()
	ctx := context.Background()

	item, err := svc.AddItem(ctx, &usecase.AddItemInput{
		UserID:       userID,
		ServiceType:  entity.ServiceTypeCar,
		JobSize:      entity.JobSizeSmall,
		VehicleModel: "Civic",
		PlateNumber:  "ABC-123",
	})
	require.NoError(t, err)

	newModel := "Outback"
	updated, err := svc.UpdateItem(ctx, &usecase.UpdateItemInput{
		UserID: userID,
		ItemID: item.ID,
		Patch:  entity.ServiceItemPatch{VehicleModel: &newModel},
	})

	require.NoError(t, err)
	assert.Equal(t, "Outback", updated.VehicleModel)
	assert.Equal(t, "ABC-123", updated.PlateNumber, "untouched fields survive the merge")
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, entity.ServiceTypeCar, updated.ServiceType)
}

func TestCartService_UpdateItem_InvalidJobSize(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())

	bad := entity.JobSize("gigantic")
	_, err := svc.UpdateItem(context.Background(), &usecase.UpdateItemInput{
		UserID: uuid.New(),
		ItemID: uuid.New(),
		Patch:  entity.ServiceItemPatch{JobSize: &bad},
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_CrossUserAccessReportsNotFound(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	item, err := svc.AddItem(ctx, &usecase.AddItemInput{
		UserID:      owner,
		ServiceType: entity.ServiceTypeStreet,
		JobSize:     entity.JobSizeSmall,
		StreetName:  "Elm St",
	})
	require.NoError(t, err)

	// Another user's lookup gets NotFound, never Forbidden.
	msg := "mine now"
	_, err = svc.UpdateItem(ctx, &usecase.UpdateItemInput{
		UserID: stranger,
		ItemID: item.ID,
		Patch:  entity.ServiceItemPatch{Message: &msg},
	})
	assert.ErrorIs(t, err, domainerrors.ErrItemNotFound)

	err = svc.RemoveItem(ctx, stranger, item.ID)
	assert.ErrorIs(t, err, domainerrors.ErrItemNotFound)

	// The owner still sees the untouched item.
	cart, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Empty(t, cart.Items[0].Message)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _ := newCartHarness(t, snowyWeather())
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.AddItem(ctx, &usecase.AddItemInput{
		UserID: userID, ServiceType: entity.ServiceTypeOther, JobSize: entity.JobSizeSmall, OtherDescription: "mailbox path",
	})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, &usecase.AddItemInput{
		UserID: userID, ServiceType: entity.ServiceTypeLawn, JobSize: entity.JobSizeSmall,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, userID, first.ID))

	cart, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	require.NoError(t, svc.ClearCart(ctx, userID))

	cart, err = svc.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
