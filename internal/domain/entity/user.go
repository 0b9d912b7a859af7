// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a unique "person" or "account".
// It contains only the most fundamental identity information shared across all roles.
type User struct {
	ID              uuid.UUID        // The Global Unique Identifier (GUID) for the user.
	Email           string           // The user's primary contact email, used as a login identifier.
	Name            string           // The user's display name or real name.
	CustomerProfile *CustomerProfile // Nil if this person does not have the 'customer' role.
	ProviderProfile *ProviderProfile // Nil if this person does not have the 'provider' role.
	CreatedAt       time.Time        // Timestamp of when this user account was created.
	UpdatedAt       time.Time        // Timestamp of the last modification to this user's data.
}

// CustomerProfile holds data specific to the "customer" role: the side that
// submits snow-removal requests and pays for them.
type CustomerProfile struct {
	UserID       uuid.UUID // Foreign Key that links this profile to a core User entity.
	DefaultPhone string    // Contact phone shown to the provider working an accepted job.
	UpdatedAt    time.Time // Timestamp of the last modification to this profile.
}

// ProviderProfile holds data specific to the "provider" (snowtech) role:
// the side that accepts live jobs and receives the payout split.
type ProviderProfile struct {
	UserID           uuid.UUID // Foreign Key that links this profile to a core User entity.
	PayoutAccountRef string    // Opaque payment-gateway account reference for transfers.
	Onboarded        bool      // True once the gateway confirmed the payout destination.
	UpdatedAt        time.Time // Timestamp of the last modification to this profile.
}

// Roles derives the role set of a user from the presence of its profiles.
func (u *User) Roles() Roles {
	var roles Roles
	if u.CustomerProfile != nil {
		roles = append(roles, RoleCustomer)
	}
	if u.ProviderProfile != nil {
		roles = append(roles, RoleProvider)
	}

	return roles
}
