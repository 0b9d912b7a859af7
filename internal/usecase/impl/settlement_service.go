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

// settlementService implements the SettlementUsecase interface.
//
// Exactly-once transfers rest on the local dedupe ledger: a pending row keyed
// by request id is committed before the gateway is called, so any later
// attempt for the same request finds the row instead of opening a second
// transfer. Gateway-side idempotency (the same key on the wire) backs this up
// when a crash lands between the row insert and the confirmation.
type settlementService struct {
	payoutRepo repository.PayoutRepository
	userRepo   repository.UserRepository
	gateway    service.PaymentGateway
	logger     *slog.Logger
}

// SettlementServiceParams holds dependencies for settlementService, injected by Fx.
type SettlementServiceParams struct {
	fx.In

	PayoutRepo repository.PayoutRepository
	UserRepo   repository.UserRepository
	Gateway    service.PaymentGateway
	Logger     *slog.Logger
}

// NewSettlementService is the constructor for settlementService.
func NewSettlementService(params SettlementServiceParams) usecase.SettlementUsecase {
	return &settlementService{
		payoutRepo: params.PayoutRepo,
		userRepo:   params.UserRepo,
		gateway:    params.Gateway,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *settlementService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Settle pays out the provider share of the request's charge.
func (srv *settlementService) Settle(ctx context.Context, request *entity.Request) (*usecase.SettleOutput, error) {
	if request.ProviderID == nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "request has no linked provider to pay")
	}
	providerID := *request.ProviderID

	provider, err := srv.userRepo.FindByID(ctx, providerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load provider for settlement")
	}
	if provider.ProviderProfile == nil || !provider.ProviderProfile.Onboarded || provider.ProviderProfile.PayoutAccountRef == "" {
		srv.log(ctx).Error("Provider has no payout destination",
			slog.Any("requestID", request.ID), slog.Any("providerID", providerID))

		return nil, errors.Wrap(service.ErrAccountNotOnboarded, "settlement blocked")
	}

	amountCents := entity.SplitCharge(request.Charge.AmountCents)

	transfer := &entity.PayoutTransfer{
		RequestID:   request.ID,
		ProviderID:  providerID,
		AccountRef:  provider.ProviderProfile.PayoutAccountRef,
		AmountCents: amountCents,
		Status:      entity.PayoutPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	// The pending row must be durable before the gateway sees the request.
	if err := srv.payoutRepo.CreatePending(ctx, transfer); err != nil {
		if errors.Is(err, repository.ErrPayoutAlreadyRecorded) {
			return srv.resumeRecorded(ctx, request.ID)
		}

		return nil, errors.Wrap(err, "failed to record transfer attempt")
	}

	return srv.executeTransfer(ctx, transfer)
}

// resumeRecorded handles a Settle call that found an existing transfer row:
// succeeded rows are returned as-is, pending rows are driven to confirmation.
func (srv *settlementService) resumeRecorded(ctx context.Context, requestID uuid.UUID) (*usecase.SettleOutput, error) {
	recorded, err := srv.payoutRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load recorded transfer")
	}

	if recorded.Status == entity.PayoutSucceeded {
		srv.log(ctx).Debug("Transfer already settled", slog.Any("requestID", requestID))

		return &usecase.SettleOutput{Transfer: recorded}, nil
	}

	srv.log(ctx).Info("Resuming pending transfer", slog.Any("requestID", requestID))

	return srv.executeTransfer(ctx, recorded)
}

// executeTransfer drives one recorded attempt through the gateway. The
// outcome of an earlier, interrupted call is checked first so a transfer that
// actually went through is confirmed rather than re-sent.
func (srv *settlementService) executeTransfer(ctx context.Context, transfer *entity.PayoutTransfer) (*usecase.SettleOutput, error) {
	idempotencyKey := transfer.RequestID.String()

	if existing, err := srv.gateway.LookupTransfer(ctx, idempotencyKey); err == nil && existing != nil {
		return srv.confirm(ctx, transfer, existing.TransferID)
	}

	result, err := srv.gateway.Transfer(ctx, transfer.AccountRef, transfer.AmountCents, idempotencyKey)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotOnboarded) {
			srv.log(ctx).Error("Transfer destination rejected",
				slog.Any("requestID", transfer.RequestID), slog.Any("providerID", transfer.ProviderID))

			return nil, errors.Wrap(err, "transfer destination rejected")
		}

		// The row stays pending; the reconciler sweep retries it.
		srv.log(ctx).Warn("Transfer failed, left pending for retry",
			slog.Any("requestID", transfer.RequestID), slog.Any("error", err))

		return nil, errors.Wrap(err, "transfer failed")
	}

	return srv.confirm(ctx, transfer, result.TransferID)
}

func (srv *settlementService) confirm(ctx context.Context, transfer *entity.PayoutTransfer, gatewayTransferID string) (*usecase.SettleOutput, error) {
	if err := srv.payoutRepo.MarkSucceeded(ctx, transfer.RequestID, gatewayTransferID); err != nil {
		// The gateway holds the funds movement; failing to promote the local
		// row only means the reconciler confirms it again later.
		srv.log(ctx).Warn("Failed to promote transfer record",
			slog.Any("requestID", transfer.RequestID), slog.Any("error", err))
	}

	confirmed := *transfer
	confirmed.Status = entity.PayoutSucceeded
	confirmed.GatewayTransferID = gatewayTransferID
	confirmed.UpdatedAt = time.Now()

	srv.log(ctx).Info("Transfer settled",
		slog.Any("requestID", transfer.RequestID),
		slog.Any("providerID", transfer.ProviderID),
		slog.Int64("amountCents", transfer.AmountCents),
		slog.String("gatewayTransferID", gatewayTransferID))

	return &usecase.SettleOutput{Transfer: &confirmed}, nil
}

// RetryPending re-drives transfers recorded but never confirmed.
func (srv *settlementService) RetryPending(ctx context.Context, limit int) (int, error) {
	pending, err := srv.payoutRepo.FindPending(ctx, limit)
	if err != nil {
		return 0, errors.Wrap(err, "failed to list pending transfers")
	}

	retried := 0
	for _, transfer := range pending {
		if _, err := srv.executeTransfer(ctx, transfer); err != nil {
			srv.log(ctx).Warn("Pending transfer retry failed",
				slog.Any("requestID", transfer.RequestID), slog.Any("error", err))

			continue
		}
		retried++
	}

	return retried, nil
}

// GetTransfer returns the transfer recorded for a request, if any.
func (srv *settlementService) GetTransfer(ctx context.Context, requestID uuid.UUID) (*entity.PayoutTransfer, error) {
	transfer, err := srv.payoutRepo.FindByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrPayoutNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "no transfer recorded for request")
		}

		return nil, errors.Wrap(err, "failed to load transfer")
	}

	return transfer, nil
}
