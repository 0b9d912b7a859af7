// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrItemNotFound is returned when a cart item does not exist for the given
// owner. Items belonging to a different user surface the same error so item
// existence is never leaked across accounts.
var ErrItemNotFound = errors.New("cart item not found")

// CartRepository defines the operations on a customer's uncommitted cart.
// Every operation is scoped to the owning user.
type CartRepository interface {
	// CreateItem persists a new cart item for its owner.
	CreateItem(ctx context.Context, item *entity.ServiceItem) error

	// FindItem retrieves one cart item scoped to its owner.
	FindItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.ServiceItem, error)

	// ListItems retrieves all cart items for a user in insertion order.
	ListItems(ctx context.Context, userID uuid.UUID) ([]*entity.ServiceItem, error)

	// UpdateItem persists a modified cart item, matched on (userID, itemID).
	UpdateItem(ctx context.Context, item *entity.ServiceItem) error

	// DeleteItem removes one cart item scoped to its owner.
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error

	// ClearItems removes every cart item for a user. Called when a submitted
	// cart has been frozen into a request.
	ClearItems(ctx context.Context, userID uuid.UUID) error
}
