// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Stage is the discrete lifecycle state of a Request. Progression is
// monotonic (live → accepted → started → completed); the only backward edge
// is a provider cancellation, which returns an accepted request to live.
type Stage string

const (
	// StageLive means the request is published and waiting for a provider.
	StageLive Stage = "live"
	// StageAccepted means exactly one provider has claimed the request.
	StageAccepted Stage = "accepted"
	// StageStarted means the provider is on site and working.
	StageStarted Stage = "started"
	// StageCompleted means the work is done and settlement has run.
	StageCompleted Stage = "completed"
)

// String returns the string representation of the Stage.
func (s Stage) String() string {
	return string(s)
}

// CanTransitionTo reports whether the lifecycle permits moving to the next
// stage. A cancellation is modeled as accepted → live.
func (s Stage) CanTransitionTo(next Stage) bool {
	switch s {
	case StageLive:
		return next == StageAccepted
	case StageAccepted:
		return next == StageStarted || next == StageLive
	case StageStarted:
		return next == StageCompleted
	default:
		return false
	}
}

// Charge is the external payment capture taken at submission. Immutable once
// created; the amount is in integer minor-currency units.
type Charge struct {
	ID          string    `json:"id"`           // Gateway-issued charge identifier.
	AmountCents int64     `json:"amount_cents"` // Captured amount in cents.
	Currency    string    `json:"currency"`     // ISO currency code, e.g. "usd".
	CreatedAt   time.Time `json:"created_at"`   // Gateway capture timestamp.
}

// Request is the central entity of the ledger: a priced, paid, published job.
// Items, Address and Weather are frozen copies taken at submission and are
// never updated afterwards; only Stage, ProviderID and the stage timestamps
// move, and only through the conditional transitions the ledger defines.
type Request struct {
	ID         uuid.UUID       // The Global Unique Identifier (GUID) for the request.
	CustomerID uuid.UUID       // The customer who submitted and paid.
	ProviderID *uuid.UUID      // The provider working the job; nil while live.
	Items      []ServiceItem   // Cart snapshot as submitted (prices included).
	Address    AddressSnapshot // Frozen address copy.
	Weather    WeatherSnapshot // Frozen weather observation used for pricing.
	Charge     Charge          // The payment capture backing this request.
	Stage      Stage           // Current lifecycle stage.

	CreatedAt   time.Time  // Submission time.
	AcceptedAt  *time.Time // Set when a provider claims the job.
	StartedAt   *time.Time // Set when work begins.
	CompletedAt *time.Time // Set when the completed record is written.
}

// TotalCents sums the frozen item prices.
func (r *Request) TotalCents() int64 {
	var total int64
	for i := range r.Items {
		total += r.Items[i].PriceCents
	}

	return total
}
