// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"plowline/internal/domain/entity"
	"plowline/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for request persistence.
var (
	// ErrRequestNotFound is returned when a request exists in neither store.
	ErrRequestNotFound = errors.New("request not found")
	// ErrStagePreconditionFailed is returned when a conditional stage update
	// matched zero rows: the expected stage (or provider linkage) no longer
	// holds, meaning a concurrent actor got there first.
	ErrStagePreconditionFailed = errors.New("request stage precondition failed")
)

// StageTransition describes one conditional update against the active store.
// The update applies only when the persisted stage equals FromStage and, when
// ExpectProvider is set, the persisted provider link matches it. A transition
// into accepted additionally requires the request to be unlinked. This is the
// compare-and-set primitive every lifecycle mutation goes through; callers
// never read-then-blind-write a stage.
type StageTransition struct {
	RequestID      uuid.UUID
	FromStage      entity.Stage
	ToStage        entity.Stage
	ExpectProvider *uuid.UUID // Required linked provider for the update to match; nil skips the check.
	SetProvider    *uuid.UUID // New provider link; nil leaves the column untouched.
	ClearProvider  bool       // Unlink the provider (cancellation).
	At             time.Time  // Stage timestamp recorded with the transition.
}

// RequestRepository defines persistence for the two request stores.
// Active and completed requests live in separate collections; a request at
// rest exists in exactly one of them (transiently in both mid-migration,
// which the reconciler heals).
type RequestRepository interface {
	// CreateActive inserts a new live request with its frozen cart, address,
	// weather and charge.
	CreateActive(ctx context.Context, request *entity.Request) error

	// FindActiveByID retrieves a request from the active store.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)

	// FindLive lists unclaimed live requests for provider polling, oldest first.
	FindLive(ctx context.Context, limit int) ([]*entity.Request, error)

	// FindActiveByCustomer lists a customer's active requests.
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Request, error)

	// FindActiveByProvider lists the requests a provider currently has claimed.
	FindActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error)

	// TransitionStage applies one conditional stage update. Returns
	// ErrStagePreconditionFailed when the guard matched zero rows, and
	// ErrRequestNotFound when the request is absent from the active store.
	TransitionStage(ctx context.Context, transition StageTransition) error

	// CreateCompleted inserts the completed record. Inserting the same
	// request twice is a no-op success, so a retried completion cannot
	// produce a second copy.
	CreateCompleted(ctx context.Context, request *entity.Request) error

	// FindCompletedByID retrieves a request from the completed store.
	FindCompletedByID(ctx context.Context, id uuid.UUID) (*entity.Request, error)

	// FindCompletedByCustomer lists a customer's completed requests.
	FindCompletedByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Request, error)

	// FindCompletedByProvider lists a provider's completed requests.
	FindCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error)

	// DeleteActive removes a request from the active store. Deleting an
	// absent row is a no-op success so migration phase 4 stays idempotent.
	DeleteActive(ctx context.Context, id uuid.UUID) error

	// FindMigrationStragglers lists request IDs present in both stores: a
	// crash hit between completed-insert and active-delete. The reconciler
	// re-runs the delete for each.
	FindMigrationStragglers(ctx context.Context, limit int) ([]uuid.UUID, error)
}
