package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email     string    `gorm:"type:varchar(255);unique;not null"`
	Name      string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`

	CustomerProfile *CustomerProfileModel `gorm:"foreignKey:UserID"`
	ProviderProfile *ProviderProfileModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// CustomerProfileModel mirrors the 'customer_profiles' table. UserID references users.id (UUID).
type CustomerProfileModel struct {
	UserID       uuid.UUID `gorm:"primaryKey"`
	DefaultPhone string    `gorm:"type:varchar(30)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (CustomerProfileModel) TableName() string {
	return "customer_profiles"
}

// ProviderProfileModel mirrors the 'provider_profiles' table. UserID references users.id (UUID).
// PayoutAccountRef is the opaque gateway account the settlement transfer targets.
type ProviderProfileModel struct {
	UserID           uuid.UUID `gorm:"primaryKey"`
	PayoutAccountRef string    `gorm:"type:varchar(255)"`
	Onboarded        bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProviderProfileModel) TableName() string {
	return "provider_profiles"
}
