// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID, preloading both role profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CustomerProfile").
		Preload("ProviderProfile").
		Where("id = ?", id).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their email address, preloading both role profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("CustomerProfile").
		Preload("ProviderProfile").
		Where("email = ?", email).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity, including its role profiles. GORM's
// Create with associations inserts into users, customer_profiles and/or
// provider_profiles together.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Propagate the generated ID and timestamps back onto the entity.
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.CustomerProfile != nil && userM.CustomerProfile != nil {
		user.CustomerProfile.UserID = userM.CustomerProfile.UserID
		user.CustomerProfile.UpdatedAt = userM.CustomerProfile.UpdatedAt
	}
	if user.ProviderProfile != nil && userM.ProviderProfile != nil {
		user.ProviderProfile.UserID = userM.ProviderProfile.UserID
		user.ProviderProfile.UpdatedAt = userM.ProviderProfile.UpdatedAt
	}

	return nil
}

// Update modifies an existing user entity, including its role profiles.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(userM).Error
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// SetPayoutAccount records the gateway payout destination on a provider
// profile once onboarding completes.
func (repo *userRepository) SetPayoutAccount(ctx context.Context, userID uuid.UUID, accountRef string, onboarded bool) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProviderProfileModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"payout_account_ref": accountRef,
			"onboarded":          onboarded,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to set payout account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		CustomerProfile: toCustomerProfileDomain(data.CustomerProfile),
		ProviderProfile: toProviderProfileDomain(data.ProviderProfile),
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		CustomerProfile: fromCustomerProfileDomain(data.CustomerProfile),
		ProviderProfile: fromProviderProfileDomain(data.ProviderProfile),
	}
}

func toCustomerProfileDomain(data *model.CustomerProfileModel) *entity.CustomerProfile {
	if data == nil {
		return nil
	}

	return &entity.CustomerProfile{
		UserID:       data.UserID,
		DefaultPhone: data.DefaultPhone,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromCustomerProfileDomain(data *entity.CustomerProfile) *model.CustomerProfileModel {
	if data == nil {
		return nil
	}

	return &model.CustomerProfileModel{
		UserID:       data.UserID,
		DefaultPhone: data.DefaultPhone,
	}
}

func toProviderProfileDomain(data *model.ProviderProfileModel) *entity.ProviderProfile {
	if data == nil {
		return nil
	}

	return &entity.ProviderProfile{
		UserID:           data.UserID,
		PayoutAccountRef: data.PayoutAccountRef,
		Onboarded:        data.Onboarded,
		UpdatedAt:        data.UpdatedAt,
	}
}

func fromProviderProfileDomain(data *entity.ProviderProfile) *model.ProviderProfileModel {
	if data == nil {
		return nil
	}

	return &model.ProviderProfileModel{
		UserID:           data.UserID,
		PayoutAccountRef: data.PayoutAccountRef,
		Onboarded:        data.Onboarded,
	}
}
