package model

import (
	"time"

	"github.com/google/uuid"
)

// PayoutTransferModel mirrors the 'payout_transfers' table, the local dedupe
// ledger for settlement transfers. RequestID is the primary key, so the
// database enforces at most one transfer record per request.
type PayoutTransferModel struct {
	RequestID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ProviderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountRef        string    `gorm:"type:varchar(255);not null"`
	AmountCents       int64     `gorm:"not null"`
	GatewayTransferID string    `gorm:"type:varchar(255)"`
	Status            string    `gorm:"type:varchar(20);not null;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (PayoutTransferModel) TableName() string {
	return "payout_transfers"
}
