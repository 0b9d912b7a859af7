// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one entry in a user's append-only notification log.
// Entries are never edited or deleted after creation; the read flag is the
// single mutable bit, and only the owner may flip it.
type Notification struct {
	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the entry.
	UserID    uuid.UUID `json:"user_id"`    // The owning recipient.
	Message   string    `json:"message"`    // Human-readable message text.
	Read      bool      `json:"read"`       // Whether the recipient has seen it.
	CreatedAt time.Time `json:"created_at"` // Append timestamp; ordering key.
}
