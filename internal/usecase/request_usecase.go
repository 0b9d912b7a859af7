package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitRequestInput defines the data required to turn a cart into a live request.
type SubmitRequestInput struct {
	CustomerID   uuid.UUID
	AddressID    uuid.UUID
	PaymentToken string
}

// SubmitRequestOutput returns the newly created request.
type SubmitRequestOutput struct {
	Request *entity.Request
}

// RequestImageOutput resolves an item's opaque image reference to a fetchable URL.
type RequestImageOutput struct {
	URL string
}

// RequestUsecase is the lifecycle state machine for snow-removal requests.
//
// Submit charges the customer before any request state is persisted. Every
// stage change is a conditional update against the currently persisted stage;
// a caller that lost a race gets ErrStageConflict, never a silent overwrite.
type RequestUsecase interface {
	// Submit prices the cart against a single weather snapshot taken at the
	// chosen address, charges the total, then atomically creates the live
	// request and clears the cart.
	Submit(ctx context.Context, input *SubmitRequestInput) (*SubmitRequestOutput, error)

	// Accept flips a live request to accepted for exactly one provider.
	// Repeating the call as the winning provider is a no-op success.
	Accept(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error)

	// Cancel returns an accepted request to the live pool. Only the linked
	// provider may cancel, and only from the accepted stage.
	Cancel(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error)

	// Start marks an accepted request as in progress.
	Start(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error)

	// Complete settles a started request: pays the provider share, archives
	// the request in the completed store, and retires the active record.
	// Safe to retry; the transfer and the archive are both idempotent.
	Complete(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error)

	// GetRequest returns a single request visible to the caller, looking in
	// the active store first and falling back to the completed store.
	GetRequest(ctx context.Context, requestID, callerID uuid.UUID) (*entity.Request, error)

	// ListLive returns unclaimed live requests for providers to browse.
	ListLive(ctx context.Context, limit, offset int) ([]*entity.Request, error)

	// ListByCustomer returns the customer's active and completed requests.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) (active, completed []*entity.Request, err error)

	// ListByProvider returns the provider's active and completed requests.
	ListByProvider(ctx context.Context, providerID uuid.UUID) (active, completed []*entity.Request, err error)

	// ResolveItemImage resolves the image reference on a request item to a URL.
	ResolveItemImage(ctx context.Context, requestID, callerID, itemID uuid.UUID) (*RequestImageOutput, error)
}
