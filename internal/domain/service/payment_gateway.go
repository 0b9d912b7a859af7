// Package service defines interfaces for core, stateless domain logic and
// for the external collaborators the ledger depends on.
package service

import (
	"context"
	"time"

	"plowline/internal/errors"
)

// Gateway failure classification. The usecase layer maps these onto the
// user-facing taxonomy; raw gateway responses never leave the infra layer.
var (
	// ErrChargeDeclined means the gateway refused the capture. Terminal for
	// the submission; nothing was charged.
	ErrChargeDeclined = errors.New("payment gateway declined the charge")
	// ErrAccountNotOnboarded means the transfer destination does not exist
	// or cannot receive funds. Fatal; surfaced to the operator.
	ErrAccountNotOnboarded = errors.New("payout account not onboarded")
	// ErrGatewayUnavailable means a transient gateway failure; safe to retry
	// with the same idempotency key.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// ChargeResult is the gateway's record of a successful capture.
type ChargeResult struct {
	ChargeID    string
	AmountCents int64
	Currency    string
	CreatedAt   time.Time
}

// TransferResult is the gateway's record of a successful payout transfer.
type TransferResult struct {
	TransferID  string
	AmountCents int64
	CreatedAt   time.Time
}

// AccountLink is the onboarding handoff for a provider payout account.
type AccountLink struct {
	AccountRef string // Gateway account reference to store on the profile.
	URL        string // One-time URL the provider visits to finish onboarding.
}

// PaymentGateway is the single external settlement authority. Every call
// carries a bounded timeout via ctx, and the mutating calls are keyed by a
// caller-supplied idempotency token so a retried handler cannot duplicate a
// financial effect.
type PaymentGateway interface {
	// Charge captures a payment. idempotencyKey dedupes retries of the same
	// logical submission.
	Charge(ctx context.Context, amountCents int64, currency, paymentToken, idempotencyKey string) (*ChargeResult, error)

	// Transfer moves funds to a provider payout account. idempotencyKey
	// dedupes retries of the same settlement.
	Transfer(ctx context.Context, accountRef string, amountCents int64, idempotencyKey string) (*TransferResult, error)

	// LookupCharge re-queries the gateway's idempotency record for a
	// capture. Used after a timeout where the outcome is unknown: the
	// caller must check before retrying rather than assume failure.
	LookupCharge(ctx context.Context, idempotencyKey string) (*ChargeResult, error)

	// LookupTransfer re-queries the gateway's idempotency record. Used after
	// a timeout where the outcome is unknown: the caller must check before
	// retrying rather than assume failure.
	LookupTransfer(ctx context.Context, idempotencyKey string) (*TransferResult, error)

	// CreateAccountLink provisions (or refreshes) a provider payout account
	// and returns the onboarding handoff.
	CreateAccountLink(ctx context.Context, email string) (*AccountLink, error)
}
