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

// cartRepository implements the domain.CartRepository interface.
// Every query is scoped to the owning user; an item under another account
// surfaces as not-found rather than forbidden.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// CreateItem persists a new cart item for its owner.
func (repo *cartRepository) CreateItem(ctx context.Context, item *entity.ServiceItem) error {
	itemM := fromCartItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid user reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required item information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// FindItem retrieves one cart item scoped to its owner.
func (repo *cartRepository) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*entity.ServiceItem, error) {
	var itemM model.CartItemModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&itemM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart item")
	}

	return toCartItemDomain(&itemM), nil
}

// ListItems retrieves all cart items for a user in insertion order.
func (repo *cartRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]*entity.ServiceItem, error) {
	var itemModels []*model.CartItemModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&itemModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	items := make([]*entity.ServiceItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		items = append(items, toCartItemDomain(itemM))
	}

	return items, nil
}

// UpdateItem persists a modified cart item, matched on (id, user_id).
// ServiceType and PriceCents are written too; the use case layer decides
// what may actually change.
func (repo *cartRepository) UpdateItem(ctx context.Context, item *entity.ServiceItem) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartItemModel{}).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Updates(map[string]any{
			"job_size":                item.JobSize.String(),
			"price_cents":             item.PriceCents,
			"image_ref":               item.ImageRef,
			"message":                 item.Message,
			"vehicle_model":           item.VehicleModel,
			"plate_number":            item.PlateNumber,
			"driveway_square_footage": item.DrivewaySquareFootage,
			"lawn_square_footage":     item.LawnSquareFootage,
			"street_name":             item.StreetName,
			"street_length":           item.StreetLength,
			"other_description":       item.OtherDescription,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

// DeleteItem removes one cart item scoped to its owner.
func (repo *cartRepository) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.CartItemModel{})
	if result.Error != nil {
		return errors.WithStack(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrItemNotFound
	}

	return nil
}

// ClearItems removes every cart item for a user.
func (repo *cartRepository) ClearItems(ctx context.Context, userID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItemModel{}).Error
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

func toCartItemDomain(data *model.CartItemModel) *entity.ServiceItem {
	if data == nil {
		return nil
	}

	return &entity.ServiceItem{
		ID:                    data.ID,
		UserID:                data.UserID,
		ServiceType:           entity.ServiceType(data.ServiceType),
		JobSize:               entity.JobSize(data.JobSize),
		PriceCents:            data.PriceCents,
		ImageRef:              data.ImageRef,
		Message:               data.Message,
		VehicleModel:          data.VehicleModel,
		PlateNumber:           data.PlateNumber,
		DrivewaySquareFootage: data.DrivewaySquareFootage,
		LawnSquareFootage:     data.LawnSquareFootage,
		StreetName:            data.StreetName,
		StreetLength:          data.StreetLength,
		OtherDescription:      data.OtherDescription,
		CreatedAt:             data.CreatedAt,
		UpdatedAt:             data.UpdatedAt,
	}
}

func fromCartItemDomain(data *entity.ServiceItem) *model.CartItemModel {
	if data == nil {
		return nil
	}

	return &model.CartItemModel{
		ID:                    data.ID,
		UserID:                data.UserID,
		ServiceType:           data.ServiceType.String(),
		JobSize:               data.JobSize.String(),
		PriceCents:            data.PriceCents,
		ImageRef:              data.ImageRef,
		Message:               data.Message,
		VehicleModel:          data.VehicleModel,
		PlateNumber:           data.PlateNumber,
		DrivewaySquareFootage: data.DrivewaySquareFootage,
		LawnSquareFootage:     data.LawnSquareFootage,
		StreetName:            data.StreetName,
		StreetLength:          data.StreetLength,
		OtherDescription:      data.OtherDescription,
	}
}
