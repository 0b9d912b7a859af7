package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel mirrors the 'addresses' table, the mutable per-user address
// book. Snapshots frozen into requests live on the request rows, not here.
type AddressModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Label       string    `gorm:"type:varchar(50)"`
	FullAddress string    `gorm:"type:text;not null"`
	Latitude    float64   `gorm:"type:decimal(10,8)"`
	Longitude   float64   `gorm:"type:decimal(11,8)"`
	IsPrimary   bool      `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
