package service

import (
	"context"
)

// LifecycleEvent is emitted on every request stage change for downstream
// consumers (analytics, operational alerting). Publishing is fire-and-forget
// relative to the transition: the durable state change is the truth and an
// emit failure is logged, never propagated.
type LifecycleEvent struct {
	TraceID     string `json:"trace_id,omitempty"` // Request-scoped ID for distributed tracing.
	RequestID   string `json:"request_id"`
	CustomerID  string `json:"customer_id"`
	ProviderID  string `json:"provider_id,omitempty"`
	Stage       string `json:"stage"`
	AmountCents int64  `json:"amount_cents,omitempty"` // Charge amount on submit, payout amount on complete.
	OccurredAt  string `json:"occurred_at"`            // RFC 3339.
}

// EventPublisher defines the interface for publishing lifecycle events to a
// message queue.
type EventPublisher interface {
	// PublishLifecycleEvent publishes one stage-change event.
	PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
