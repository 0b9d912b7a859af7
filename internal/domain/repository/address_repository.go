// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"plowline/internal/domain/entity"
	"plowline/internal/errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found for the owner.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-book operations.
// Addresses here are the mutable book only; snapshots embedded in requests
// are stored with the request and never read back through this interface.
type AddressRepository interface {
	// CreateAddress persists a new address for an owner.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address scoped to its owner.
	FindAddressByID(ctx context.Context, userID, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUser retrieves all addresses for a user.
	FindAddressesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address scoped to its owner.
	DeleteAddress(ctx context.Context, userID, id uuid.UUID) error
}
