// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for payout persistence.
var (
	// ErrPayoutNotFound is returned when no transfer record exists for a request.
	ErrPayoutNotFound = errors.New("payout transfer not found")
	// ErrPayoutAlreadyRecorded is returned when a pending record already
	// exists for the request; the caller holds a duplicate attempt.
	ErrPayoutAlreadyRecorded = errors.New("payout transfer already recorded")
)

// PayoutRepository defines persistence for the local transfer dedupe ledger.
// A row is inserted (pending) before the gateway is called and promoted to
// succeeded afterwards, giving exactly-once transfer semantics even when the
// gateway-side idempotency key is unsupported.
type PayoutRepository interface {
	// CreatePending records a transfer attempt before the gateway call.
	// Returns ErrPayoutAlreadyRecorded if any record already exists for the
	// request, succeeded or pending.
	CreatePending(ctx context.Context, transfer *entity.PayoutTransfer) error

	// FindByRequestID retrieves the transfer record for a request.
	FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.PayoutTransfer, error)

	// MarkSucceeded promotes a pending record once the gateway confirms.
	MarkSucceeded(ctx context.Context, requestID uuid.UUID, gatewayTransferID string) error

	// FindPending lists pending transfers for the reconciler's retry sweep.
	FindPending(ctx context.Context, limit int) ([]*entity.PayoutTransfer, error)
}
