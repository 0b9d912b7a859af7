// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Address is a mutable entry in a customer's address book.
type Address struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the address.
	UserID      uuid.UUID // The user who owns this address.
	Label       string    // A user-defined label, e.g., "Home", "Office".
	FullAddress string    // The full, human-readable street address.
	Latitude    float64   // The geographic latitude.
	Longitude   float64   // The geographic longitude.
	IsPrimary   bool      // Indicates if this is the primary address for the owner.
	CreatedAt   time.Time // Timestamp of when this address was created.
	UpdatedAt   time.Time // Timestamp of the last modification.
}

// AddressSnapshot is the immutable copy of an address embedded in a request
// at submission time. It is a value, not a reference: later edits to the
// owner's address book never reach a snapshot already taken.
type AddressSnapshot struct {
	Label       string  `json:"label"`
	FullAddress string  `json:"full_address"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Snapshot freezes the address into an immutable value copy.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Label:       a.Label,
		FullAddress: a.FullAddress,
		Latitude:    a.Latitude,
		Longitude:   a.Longitude,
	}
}
