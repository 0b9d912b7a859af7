package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// SettleOutput reports the transfer recorded for a completed request.
type SettleOutput struct {
	Transfer *entity.PayoutTransfer
}

// SettlementUsecase executes the provider/platform split for completed work.
//
// Settle is keyed by request id: a pending transfer row is persisted before
// the gateway is called, so a retried caller finds the row and never produces
// a second transfer for the same request.
type SettlementUsecase interface {
	// Settle pays out the provider share of the request's charge. Calling it
	// again for the same request returns the already-recorded transfer.
	Settle(ctx context.Context, request *entity.Request) (*SettleOutput, error)

	// RetryPending re-drives transfers that were recorded but not confirmed,
	// re-querying the gateway's idempotency record before deciding to retry.
	RetryPending(ctx context.Context, limit int) (retried int, err error)

	// GetTransfer returns the transfer recorded for a request, if any.
	GetTransfer(ctx context.Context, requestID uuid.UUID) (*entity.PayoutTransfer, error)
}
