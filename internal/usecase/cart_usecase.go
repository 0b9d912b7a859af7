package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// AddItemInput defines the data required to place a service item in a cart.
// Price fields are never accepted from the client; the server computes them.
type AddItemInput struct {
	UserID      uuid.UUID
	ServiceType entity.ServiceType
	JobSize     entity.JobSize

	VehicleModel          string
	PlateNumber           string
	DrivewaySquareFootage int
	LawnSquareFootage     int
	StreetName            string
	StreetLength          int
	OtherDescription      string

	Message  string
	ImageRef string

	Latitude  float64
	Longitude float64
}

// UpdateItemInput carries a partial edit for an existing cart item.
type UpdateItemInput struct {
	UserID uuid.UUID
	ItemID uuid.UUID
	Patch  entity.ServiceItemPatch
}

// CartOutput returns the cart contents with the running total.
type CartOutput struct {
	Items      []*entity.ServiceItem
	TotalCents int64
}

// CartUsecase manages the pre-submission collection of service items.
type CartUsecase interface {
	AddItem(ctx context.Context, input *AddItemInput) (*entity.ServiceItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*CartOutput, error)
	UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.ServiceItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}
