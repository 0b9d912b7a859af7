package impl

import (
	"context"
	"testing"

	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddressHarness(t *testing.T) (usecase.AddressUsecase, *fakeStores) {
	t.Helper()

	stores := newFakeStores()
	svc := NewAddressService(AddressServiceParams{
		TxManager:   &fakeTxManager{stores: stores},
		AddressRepo: &fakeAddressRepo{stores},
		Logger:      testLogger(),
	})

	return svc, stores
}

func TestAddressService_CreateListUpdateDelete(t *testing.T) {
	svc, _ := newAddressHarness(t)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateAddress(ctx, &usecase.CreateAddressInput{
		UserID:      userID,
		Label:       "Home",
		FullAddress: "12 Birch Lane, Buffalo NY",
		Latitude:    42.88,
		Longitude:   -78.87,
		IsPrimary:   true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	listed, err := svc.ListAddresses(ctx, userID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	newLabel := "Winter House"
	updated, err := svc.UpdateAddress(ctx, &usecase.UpdateAddressInput{
		UserID:    userID,
		AddressID: created.ID,
		Label:     &newLabel,
	})
	require.NoError(t, err)
	assert.Equal(t, "Winter House", updated.Label)
	assert.Equal(t, "12 Birch Lane, Buffalo NY", updated.FullAddress)

	require.NoError(t, svc.DeleteAddress(ctx, userID, created.ID))

	listed, err = svc.ListAddresses(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestAddressService_Create_RequiresFullAddress(t *testing.T) {
	svc, _ := newAddressHarness(t)

	_, err := svc.CreateAddress(context.Background(), &usecase.CreateAddressInput{
		UserID: uuid.New(),
		Label:  "Empty",
	})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAddressService_CrossUserAccessReportsNotFound(t *testing.T) {
	svc, _ := newAddressHarness(t)
	owner := uuid.New()
	stranger := uuid.New()
	ctx := context.Background()

	created, err := svc.CreateAddress(ctx, &usecase.CreateAddressInput{
		UserID:      owner,
		FullAddress: "12 Birch Lane",
	})
	require.NoError(t, err)

	label := "stolen"
	_, err = svc.UpdateAddress(ctx, &usecase.UpdateAddressInput{
		UserID:    stranger,
		AddressID: created.ID,
		Label:     &label,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)

	err = svc.DeleteAddress(ctx, stranger, created.ID)
	assert.ErrorIs(t, err, domainerrors.ErrAddressNotFound)
}
