// Package entity contains the core business objects of the project.
package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ProviderShare is the fixed fraction of a captured charge transferred to the
// provider on completion; the platform retains the remainder.
const ProviderShare = 0.8

// PayoutStatus tracks a transfer attempt through the gateway.
type PayoutStatus string

const (
	// PayoutPending means the attempt was recorded but the gateway has not confirmed.
	PayoutPending PayoutStatus = "pending"
	// PayoutSucceeded means the gateway confirmed the transfer.
	PayoutSucceeded PayoutStatus = "succeeded"
)

// String returns the string representation of the PayoutStatus.
func (s PayoutStatus) String() string {
	return string(s)
}

// PayoutTransfer is the local idempotency record for a settlement transfer.
// Exactly one row may exist per request; it is written before the gateway is
// called so a retried completion can detect an attempt already in flight.
type PayoutTransfer struct {
	RequestID         uuid.UUID    // The completed request this transfer settles; unique.
	ProviderID        uuid.UUID    // The provider being paid.
	AccountRef        string       // Gateway payout destination.
	AmountCents       int64        // Provider share in cents.
	GatewayTransferID string       // Gateway-issued transfer id once confirmed.
	Status            PayoutStatus // pending until the gateway confirms.
	CreatedAt         time.Time    // First attempt timestamp.
	UpdatedAt         time.Time    // Last attempt timestamp.
}

// SplitCharge computes the provider payout for a captured charge amount,
// rounding to the nearest cent. The platform keeps amount − payout.
func SplitCharge(chargeAmountCents int64) int64 {
	return int64(math.Round(float64(chargeAmountCents) * ProviderShare))
}
