package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to group writes atomically without depending
// on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error, the transaction is rolled back;
	// otherwise it is committed. All repository instances obtained from the
	// factory share the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to one transaction.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository bound to the current transaction.
	UserRepo() UserRepository

	// CredentialRepo returns a CredentialRepository bound to the current transaction.
	CredentialRepo() CredentialRepository

	// CartRepo returns a CartRepository bound to the current transaction.
	CartRepo() CartRepository

	// AddressRepo returns an AddressRepository bound to the current transaction.
	AddressRepo() AddressRepository

	// RequestRepo returns a RequestRepository bound to the current transaction.
	RequestRepo() RequestRepository

	// NotificationRepo returns a NotificationRepository bound to the current transaction.
	NotificationRepo() NotificationRepository

	// PayoutRepo returns a PayoutRepository bound to the current transaction.
	PayoutRepo() PayoutRepository

	// RefreshTokenRepo returns a RefreshTokenRepository bound to the current transaction.
	RefreshTokenRepo() RefreshTokenRepository
}
