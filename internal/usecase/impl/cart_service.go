// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "plowline/internal/delivery/context"
	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/pricing"
	"plowline/internal/domain/repository"
	"plowline/internal/domain/service"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager repository.TransactionManager
	cartRepo  repository.CartRepository
	weather   service.WeatherProvider
	uploads   service.UploadStore
	logger    *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Weather   service.WeatherProvider
	Uploads   service.UploadStore
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager: params.TxManager,
		cartRepo:  params.CartRepo,
		weather:   params.Weather,
		uploads:   params.Uploads,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// AddItem creates a cart item with a server-computed display price. The price
// here is a quote: submission reprices every item from its own weather
// snapshot, so a stale quote can never reach the charge.
func (srv *cartService) AddItem(ctx context.Context, input *usecase.AddItemInput) (*entity.ServiceItem, error) {
	if !input.ServiceType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown service type")
	}

	if input.ImageRef != "" {
		exists, err := srv.uploads.Exists(ctx, input.ImageRef)
		if err != nil {
			srv.log(ctx).Warn("Failed to check image reference", slog.String("imageRef", input.ImageRef), slog.Any("error", err))
		} else if !exists {
			return nil, errors.Wrap(domainerrors.ErrValidationFailed, "image reference does not resolve to a stored object")
		}
	}

	item := &entity.ServiceItem{
		ID:                    uuid.New(),
		UserID:                input.UserID,
		ServiceType:           input.ServiceType,
		JobSize:               input.JobSize,
		PriceCents:            srv.quotePrice(ctx, input.Latitude, input.Longitude, input.JobSize),
		ImageRef:              input.ImageRef,
		Message:               input.Message,
		VehicleModel:          input.VehicleModel,
		PlateNumber:           input.PlateNumber,
		DrivewaySquareFootage: input.DrivewaySquareFootage,
		LawnSquareFootage:     input.LawnSquareFootage,
		StreetName:            input.StreetName,
		StreetLength:          input.StreetLength,
		OtherDescription:      input.OtherDescription,
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
	}

	if err := item.Validate(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	if err := srv.cartRepo.CreateItem(ctx, item); err != nil {
		srv.log(ctx).Error("Failed to create cart item", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create cart item")
	}

	srv.log(ctx).Debug("Cart item added",
		slog.Any("userID", input.UserID),
		slog.Any("itemID", item.ID),
		slog.String("serviceType", item.ServiceType.String()),
		slog.Int64("priceCents", item.PriceCents))

	return item, nil
}

// quotePrice computes the display price from a fresh observation at the given
// coordinates. An observation failure falls back to clear-weather pricing
// rather than blocking the add.
func (srv *cartService) quotePrice(ctx context.Context, lat, lon float64, size entity.JobSize) int64 {
	snapshot, err := srv.weather.Observe(ctx, lat, lon)
	if err != nil {
		srv.log(ctx).Warn("Weather observation failed for cart quote, using clear-weather price", slog.Any("error", err))
		snapshot = &entity.WeatherSnapshot{Type: entity.PrecipitationNone, CapturedAt: time.Now()}
	}

	return pricing.PriceCents(*snapshot, size)
}

// GetCart returns the user's cart items with the running total.
func (srv *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartOutput, error) {
	items, err := srv.cartRepo.ListItems(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list cart items", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list cart items")
	}

	var total int64
	for _, item := range items {
		total += item.PriceCents
	}

	return &usecase.CartOutput{Items: items, TotalCents: total}, nil
}

// UpdateItem merges the defined patch fields onto an existing item. Identity
// fields are not patchable, so a merge can never erase id, owner or type.
func (srv *cartService) UpdateItem(ctx context.Context, input *usecase.UpdateItemInput) (*entity.ServiceItem, error) {
	if input.Patch.JobSize != nil {
		switch *input.Patch.JobSize {
		case entity.JobSizeSmall, entity.JobSizeMedium, entity.JobSizeLarge, entity.JobSizeXLarge:
		default:
			return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown job size")
		}
	}

	var updated *entity.ServiceItem
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		item, err := cartRepo.FindItem(ctx, input.UserID, input.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrItemNotFound) {
				return errors.Wrap(domainerrors.ErrItemNotFound, "cart item not found")
			}

			return errors.Wrap(err, "failed to find cart item")
		}

		input.Patch.Apply(item)
		item.UpdatedAt = time.Now()

		if err := item.Validate(); err != nil {
			return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
		}

		if err := cartRepo.UpdateItem(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update cart item")
		}

		updated = item

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to update cart item", slog.Any("userID", input.UserID), slog.Any("itemID", input.ItemID), slog.Any("error", err))

		return nil, err
	}

	return updated, nil
}

// RemoveItem deletes one item from the caller's cart.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := srv.cartRepo.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return errors.Wrap(domainerrors.ErrItemNotFound, "cart item not found")
		}
		srv.log(ctx).Error("Failed to delete cart item", slog.Any("userID", userID), slog.Any("itemID", itemID), slog.Any("error", err))

		return errors.Wrap(err, "failed to delete cart item")
	}

	return nil
}

// ClearCart empties the caller's cart.
func (srv *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := srv.cartRepo.ClearItems(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to clear cart", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to clear cart")
	}

	return nil
}
