// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Credential represents a user's email/password login method. The identity
// service is a supporting surface here; the ledger only ever consumes the
// verified user ID it produces.
type Credential struct {
	ID           uuid.UUID // The unique ID for this credential record.
	UserID       uuid.UUID // Links this credential to the User it belongs to.
	Email        string    // Login identifier; unique across credentials.
	PasswordHash string    // bcrypt-hashed password.
	CreatedAt    time.Time // Timestamp of when this credential was created.
}

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new access token after the old one expires.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token.
	ExpiresAt time.Time // When this refresh token becomes invalid.
	CreatedAt time.Time // When this session was created.
}
