package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateAddressInput defines the data required to add an address book entry.
type CreateAddressInput struct {
	UserID      uuid.UUID
	Label       string
	FullAddress string
	Latitude    float64
	Longitude   float64
	IsPrimary   bool
}

// UpdateAddressInput carries a partial edit for an existing address.
type UpdateAddressInput struct {
	UserID    uuid.UUID
	AddressID uuid.UUID

	Label       *string
	FullAddress *string
	Latitude    *float64
	Longitude   *float64
	IsPrimary   *bool
}

// AddressUsecase manages a customer's address book. Edits here never reach
// snapshots already embedded in submitted requests.
type AddressUsecase interface {
	CreateAddress(ctx context.Context, input *CreateAddressInput) (*entity.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	UpdateAddress(ctx context.Context, input *UpdateAddressInput) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
}
