package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "plowline/internal/delivery/context"
	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface. It manages the
// mutable address book only; snapshots embedded in requests are frozen at
// submission and are out of reach of every operation here.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.AddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for addressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.AddressRepository
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// CreateAddress adds a new address book entry for the caller.
func (srv *addressService) CreateAddress(ctx context.Context, input *usecase.CreateAddressInput) (*entity.Address, error) {
	if input.FullAddress == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "full address is required")
	}

	address := &entity.Address{
		ID:          uuid.New(),
		UserID:      input.UserID,
		Label:       input.Label,
		FullAddress: input.FullAddress,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		IsPrimary:   input.IsPrimary,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := srv.addressRepo.CreateAddress(ctx, address); err != nil {
		srv.log(ctx).Error("Failed to create address", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create address")
	}

	return address, nil
}

// ListAddresses returns all of the caller's saved addresses.
func (srv *addressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByUser(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list addresses", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// UpdateAddress merges the defined fields onto an existing entry.
func (srv *addressService) UpdateAddress(ctx context.Context, input *usecase.UpdateAddressInput) (*entity.Address, error) {
	var updated *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		address, err := addressRepo.FindAddressByID(ctx, input.UserID, input.AddressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
			}

			return errors.Wrap(err, "failed to find address")
		}

		if input.Label != nil {
			address.Label = *input.Label
		}
		if input.FullAddress != nil {
			if *input.FullAddress == "" {
				return errors.Wrap(domainerrors.ErrValidationFailed, "full address cannot be emptied")
			}
			address.FullAddress = *input.FullAddress
		}
		if input.Latitude != nil {
			address.Latitude = *input.Latitude
		}
		if input.Longitude != nil {
			address.Longitude = *input.Longitude
		}
		if input.IsPrimary != nil {
			address.IsPrimary = *input.IsPrimary
		}
		address.UpdatedAt = time.Now()

		if err := addressRepo.UpdateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to update address")
		}

		updated = address

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to update address", slog.Any("userID", input.UserID), slog.Any("addressID", input.AddressID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// DeleteAddress removes one of the caller's saved addresses.
func (srv *addressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if err := srv.addressRepo.DeleteAddress(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return errors.Wrap(domainerrors.ErrAddressNotFound, "address not found")
		}
		srv.log(ctx).Error("Failed to delete address", slog.Any("userID", userID), slog.Any("addressID", addressID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete address")
	}

	return nil
}
