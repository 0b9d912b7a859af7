package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ActiveRequestModel mirrors the 'active_requests' table: the hot store of
// requests between submission and completion. The frozen cart, address,
// weather and charge are stored as JSONB documents because they are written
// once at submission and only ever read back whole.
//
// Stage and ProviderID are the only mutable columns; every write to them goes
// through a conditional UPDATE guarded on the current stage.
type ActiveRequestModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProviderID *uuid.UUID     `gorm:"type:uuid;index"`
	Stage      string         `gorm:"type:varchar(20);not null;index"`
	Items      datatypes.JSON `gorm:"type:jsonb;not null"`
	Address    datatypes.JSON `gorm:"type:jsonb;not null"`
	Weather    datatypes.JSON `gorm:"type:jsonb;not null"`
	Charge     datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt  time.Time `gorm:"index"`
	AcceptedAt *time.Time
	StartedAt  *time.Time
}

// TableName explicitly sets the table name for GORM.
func (ActiveRequestModel) TableName() string {
	return "active_requests"
}

// CompletedRequestModel mirrors the 'completed_requests' table: the terminal,
// append-only store. Rows share the request's original ID so the completed
// insert is naturally idempotent under the primary key.
type CompletedRequestModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProviderID *uuid.UUID     `gorm:"type:uuid;index"`
	Items      datatypes.JSON `gorm:"type:jsonb;not null"`
	Address    datatypes.JSON `gorm:"type:jsonb;not null"`
	Weather    datatypes.JSON `gorm:"type:jsonb;not null"`
	Charge     datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt   time.Time
	AcceptedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// TableName explicitly sets the table name for GORM.
func (CompletedRequestModel) TableName() string {
	return "completed_requests"
}
