// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"plowline/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterCustomerInput defines the data required to register a new customer.
type RegisterCustomerInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// RegisterProviderInput defines the data required to register a new service provider.
type RegisterProviderInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token to invalidate.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the newly issued access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// OnboardProviderOutput returns the gateway onboarding link for a provider.
type OnboardProviderOutput struct {
	OnboardingURL string
	AccountRef    string
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*RegisterOutput, error)
	RegisterProvider(ctx context.Context, input *RegisterProviderInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)

	// OnboardProvider creates a payout account link for the provider so
	// completed jobs can be paid out. A provider without an onboarded
	// account can still accept work but settlement will park the payout.
	OnboardProvider(ctx context.Context, userID uuid.UUID) (*OnboardProviderOutput, error)
}
