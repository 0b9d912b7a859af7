package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItemModel mirrors the 'cart_items' table. The variant columns for the
// five service types sit side by side; only the columns matching ServiceType
// carry values, the rest stay at their zero defaults.
type CartItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceType string    `gorm:"type:varchar(20);not null"`
	JobSize     string    `gorm:"type:varchar(20)"`
	PriceCents  int64     `gorm:"not null;default:0"`
	ImageRef    string    `gorm:"type:varchar(512)"`
	Message     string    `gorm:"type:text"`

	VehicleModel          string `gorm:"type:varchar(100)"`
	PlateNumber           string `gorm:"type:varchar(20)"`
	DrivewaySquareFootage int
	LawnSquareFootage     int
	StreetName            string `gorm:"type:varchar(255)"`
	StreetLength          int
	OtherDescription      string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
