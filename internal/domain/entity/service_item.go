// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ServiceType discriminates the kinds of snow-removal work a cart item can describe.
type ServiceType string

const (
	// ServiceTypeCar is snow removal around a parked vehicle.
	ServiceTypeCar ServiceType = "car"
	// ServiceTypeDriveway is driveway clearing.
	ServiceTypeDriveway ServiceType = "driveway"
	// ServiceTypeLawn is lawn/yard clearing.
	ServiceTypeLawn ServiceType = "lawn"
	// ServiceTypeStreet is a street or sidewalk segment.
	ServiceTypeStreet ServiceType = "street"
	// ServiceTypeOther is free-form work described by the customer.
	ServiceTypeOther ServiceType = "other"
)

// String returns the string representation of the ServiceType.
func (s ServiceType) String() string {
	return string(s)
}

// IsValid checks if the ServiceType is a valid value.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceTypeCar, ServiceTypeDriveway, ServiceTypeLawn, ServiceTypeStreet, ServiceTypeOther:
		return true
	default:
		return false
	}
}

// JobSize classifies how large a single service item is for pricing purposes.
// Unrecognized values price with a neutral multiplier rather than failing.
type JobSize string

const (
	JobSizeSmall  JobSize = "small"
	JobSizeMedium JobSize = "medium"
	JobSizeLarge  JobSize = "large"
	JobSizeXLarge JobSize = "x-large"
)

// String returns the string representation of the JobSize.
func (j JobSize) String() string {
	return string(j)
}

// ServiceItem is one uncommitted line of work in a customer's cart.
// The discriminated type-specific attributes live side by side; only the
// fields matching ServiceType are meaningful, everything else stays zero.
type ServiceItem struct {
	ID          uuid.UUID   // The Global Unique Identifier (GUID) for the item.
	UserID      uuid.UUID   // The customer who owns this cart item.
	ServiceType ServiceType // Discriminator over the variant fields below.
	JobSize     JobSize     // Pricing size class (small/medium/large/x-large).
	PriceCents  int64       // Server-computed price in integer cents; never client supplied.
	ImageRef    string      // Opaque reference into the upload store; empty if none.
	Message     string      // Optional free-form note from the customer.

	// Car variant.
	VehicleModel string
	PlateNumber  string

	// Driveway variant.
	DrivewaySquareFootage int

	// Lawn variant.
	LawnSquareFootage int

	// Street variant.
	StreetName   string
	StreetLength int

	// Other variant.
	OtherDescription string

	CreatedAt time.Time // Timestamp of when this item was added to the cart.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// Validate checks the identity invariants every item must satisfy.
func (i *ServiceItem) Validate() error {
	if i.ID == uuid.Nil || i.UserID == uuid.Nil {
		return ErrItemIdentityMissing
	}
	if !i.ServiceType.IsValid() {
		return ErrItemTypeInvalid
	}
	if i.PriceCents < 0 {
		return ErrItemPriceNegative
	}

	return nil
}

// ServiceItemPatch lists the fields a caller may change on an existing cart
// item. Nil pointers mean "leave unchanged". Identity fields (id, userId,
// serviceType) are deliberately absent: a patch can never erase or move them.
type ServiceItemPatch struct {
	JobSize               *JobSize
	ImageRef              *string
	Message               *string
	VehicleModel          *string
	PlateNumber           *string
	DrivewaySquareFootage *int
	LawnSquareFootage     *int
	StreetName            *string
	StreetLength          *int
	OtherDescription      *string
}

// Apply merges the defined patch fields onto the item in place.
func (p *ServiceItemPatch) Apply(item *ServiceItem) {
	if p.JobSize != nil {
		item.JobSize = *p.JobSize
	}
	if p.ImageRef != nil {
		item.ImageRef = *p.ImageRef
	}
	if p.Message != nil {
		item.Message = *p.Message
	}
	if p.VehicleModel != nil {
		item.VehicleModel = *p.VehicleModel
	}
	if p.PlateNumber != nil {
		item.PlateNumber = *p.PlateNumber
	}
	if p.DrivewaySquareFootage != nil {
		item.DrivewaySquareFootage = *p.DrivewaySquareFootage
	}
	if p.LawnSquareFootage != nil {
		item.LawnSquareFootage = *p.LawnSquareFootage
	}
	if p.StreetName != nil {
		item.StreetName = *p.StreetName
	}
	if p.StreetLength != nil {
		item.StreetLength = *p.StreetLength
	}
	if p.OtherDescription != nil {
		item.OtherDescription = *p.OtherDescription
	}
}
