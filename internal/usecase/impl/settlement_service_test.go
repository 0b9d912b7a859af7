package impl

import (
	"context"
	"testing"
	"time"

	"plowline/internal/domain/entity"
	"plowline/internal/domain/service"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSettlementHarness(t *testing.T) (usecase.SettlementUsecase, *fakeStores, *mockPaymentGateway, uuid.UUID) {
	t.Helper()

	stores := newFakeStores()
	gateway := &mockPaymentGateway{}

	provider := &entity.User{
		Name:  "Pat Plow",
		Email: "pat@example.com",
		ProviderProfile: &entity.ProviderProfile{
			PayoutAccountRef: "acct_pat",
			Onboarded:        true,
		},
	}
	require.NoError(t, (&fakeUserRepo{stores}).Create(context.Background(), provider))

	settlement := NewSettlementService(SettlementServiceParams{
		PayoutRepo: &fakePayoutRepo{stores},
		UserRepo:   &fakeUserRepo{stores},
		Gateway:    gateway,
		Logger:     testLogger(),
	})

	return settlement, stores, gateway, provider.ID
}

func startedRequest(customerID, providerID uuid.UUID, chargeCents int64) *entity.Request {
	return &entity.Request{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProviderID: &providerID,
		Stage:      entity.StageStarted,
		Charge: entity.Charge{
			ID:          "ch_test",
			AmountCents: chargeCents,
			Currency:    "usd",
			CreatedAt:   time.Now(),
		},
		CreatedAt: time.Now(),
	}
}

func TestSettlementService_Settle_SplitsEightyTwenty(t *testing.T) {
	settlement, _, gateway, providerID := newSettlementHarness(t)
	request := startedRequest(uuid.New(), providerID, 2700)

	gateway.On("LookupTransfer", mock.Anything, request.ID.String()).
		Return(nil, service.ErrGatewayUnavailable)
	gateway.On("Transfer", mock.Anything, "acct_pat", int64(2160), request.ID.String()).
		Return(&service.TransferResult{TransferID: "tr_1", AmountCents: 2160, CreatedAt: time.Now()}, nil).Once()

	output, err := settlement.Settle(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, int64(2160), output.Transfer.AmountCents)
	assert.Equal(t, entity.PayoutSucceeded, output.Transfer.Status)
	assert.Equal(t, "tr_1", output.Transfer.GatewayTransferID)
	gateway.AssertExpectations(t)
}

func TestSettlementService_Settle_RoundsSplit(t *testing.T) {
	// 0.8 * 2255 = 1804 exactly; 0.8 * 2253 = 1802.4 -> 1802.
	assert.Equal(t, int64(1804), entity.SplitCharge(2255))
	assert.Equal(t, int64(1802), entity.SplitCharge(2253))
	assert.Equal(t, int64(2), entity.SplitCharge(3)) // 2.4 -> 2
}

func TestSettlementService_Settle_SecondCallReturnsRecordedTransfer(t *testing.T) {
	settlement, _, gateway, providerID := newSettlementHarness(t)
	request := startedRequest(uuid.New(), providerID, 1000)

	gateway.On("LookupTransfer", mock.Anything, request.ID.String()).
		Return(nil, service.ErrGatewayUnavailable).Once()
	gateway.On("Transfer", mock.Anything, "acct_pat", int64(800), request.ID.String()).
		Return(&service.TransferResult{TransferID: "tr_once", AmountCents: 800, CreatedAt: time.Now()}, nil).Once()

	first, err := settlement.Settle(context.Background(), request)
	require.NoError(t, err)

	second, err := settlement.Settle(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, first.Transfer.GatewayTransferID, second.Transfer.GatewayTransferID)
	gateway.AssertNumberOfCalls(t, "Transfer", 1)
}

func TestSettlementService_Settle_ResumesAfterTimeoutViaLookup(t *testing.T) {
	settlement, stores, gateway, providerID := newSettlementHarness(t)
	request := startedRequest(uuid.New(), providerID, 1000)

	// A previous attempt recorded the row and the gateway executed the
	// transfer, but the confirmation never arrived.
	require.NoError(t, (&fakePayoutRepo{stores}).CreatePending(context.Background(), &entity.PayoutTransfer{
		RequestID:   request.ID,
		ProviderID:  providerID,
		AccountRef:  "acct_pat",
		AmountCents: 800,
		Status:      entity.PayoutPending,
		CreatedAt:   time.Now(),
	}))

	gateway.On("LookupTransfer", mock.Anything, request.ID.String()).
		Return(&service.TransferResult{TransferID: "tr_lost", AmountCents: 800, CreatedAt: time.Now()}, nil).Once()

	output, err := settlement.Settle(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, "tr_lost", output.Transfer.GatewayTransferID)
	assert.Equal(t, entity.PayoutSucceeded, output.Transfer.Status)
	// The transfer was found via the idempotency record, never re-sent.
	gateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_Settle_NotOnboarded(t *testing.T) {
	settlement, stores, gateway, _ := newSettlementHarness(t)

	raw := &entity.User{
		Name:            "New Tech",
		Email:           "new@example.com",
		ProviderProfile: &entity.ProviderProfile{},
	}
	require.NoError(t, (&fakeUserRepo{stores}).Create(context.Background(), raw))
	request := startedRequest(uuid.New(), raw.ID, 1000)

	_, err := settlement.Settle(context.Background(), request)

	assert.ErrorIs(t, err, service.ErrAccountNotOnboarded)
	gateway.AssertNotCalled(t, "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	// No dedupe row was opened for a transfer that can never run.
	assert.Empty(t, stores.payouts)
}

func TestSettlementService_RetryPending(t *testing.T) {
	settlement, stores, gateway, providerID := newSettlementHarness(t)

	requestID := uuid.New()
	require.NoError(t, (&fakePayoutRepo{stores}).CreatePending(context.Background(), &entity.PayoutTransfer{
		RequestID:   requestID,
		ProviderID:  providerID,
		AccountRef:  "acct_pat",
		AmountCents: 640,
		Status:      entity.PayoutPending,
		CreatedAt:   time.Now(),
	}))

	gateway.On("LookupTransfer", mock.Anything, requestID.String()).
		Return(nil, service.ErrGatewayUnavailable)
	gateway.On("Transfer", mock.Anything, "acct_pat", int64(640), requestID.String()).
		Return(&service.TransferResult{TransferID: "tr_retry", AmountCents: 640, CreatedAt: time.Now()}, nil).Once()

	retried, err := settlement.RetryPending(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 1, retried)
	assert.Equal(t, entity.PayoutSucceeded, stores.payouts[requestID].Status)
}

func TestSettlementService_RetryPending_KeepsFailing(t *testing.T) {
	settlement, stores, gateway, providerID := newSettlementHarness(t)

	requestID := uuid.New()
	require.NoError(t, (&fakePayoutRepo{stores}).CreatePending(context.Background(), &entity.PayoutTransfer{
		RequestID:   requestID,
		ProviderID:  providerID,
		AccountRef:  "acct_pat",
		AmountCents: 640,
		Status:      entity.PayoutPending,
		CreatedAt:   time.Now(),
	}))

	gateway.On("LookupTransfer", mock.Anything, requestID.String()).
		Return(nil, service.ErrGatewayUnavailable)
	gateway.On("Transfer", mock.Anything, "acct_pat", int64(640), requestID.String()).
		Return(nil, service.ErrGatewayUnavailable)

	retried, err := settlement.RetryPending(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 0, retried)
	assert.Equal(t, entity.PayoutPending, stores.payouts[requestID].Status)
}
