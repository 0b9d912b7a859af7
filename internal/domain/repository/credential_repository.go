// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"

	"plowline/internal/domain/entity"
)

// ErrCredentialNotFound is returned when no credential exists for an email.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository defines persistence for email/password credentials.
type CredentialRepository interface {
	// CreateCredential persists a new email/password credential.
	CreateCredential(ctx context.Context, credential *entity.Credential) error

	// FindByEmail retrieves a credential by its login email.
	FindByEmail(ctx context.Context, email string) (*entity.Credential, error)
}
