// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// payoutRepository implements the domain.PayoutRepository interface over the
// transfer dedupe ledger. The request ID primary key is the dedupe guarantee:
// a second insert for the same request hits the constraint, never a second row.
type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository is the constructor for payoutRepository.
func NewPayoutRepository(db *gorm.DB) repository.PayoutRepository {
	return &payoutRepository{db: db}
}

// CreatePending records a transfer attempt before the gateway call.
func (repo *payoutRepository) CreatePending(ctx context.Context, transfer *entity.PayoutTransfer) error {
	transferM := fromPayoutTransferDomain(transfer)
	transferM.Status = entity.PayoutPending.String()

	if err := repo.db.WithContext(ctx).Create(transferM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrPayoutAlreadyRecorded
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create pending payout")
	}

	transfer.Status = entity.PayoutPending
	transfer.CreatedAt = transferM.CreatedAt
	transfer.UpdatedAt = transferM.UpdatedAt

	return nil
}

// FindByRequestID retrieves the transfer record for a request.
func (repo *payoutRepository) FindByRequestID(ctx context.Context, requestID uuid.UUID) (*entity.PayoutTransfer, error) {
	var transferM model.PayoutTransferModel
	err := repo.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&transferM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPayoutNotFound
		}

		return nil, errors.Wrap(err, "failed to find payout transfer")
	}

	return toPayoutTransferDomain(&transferM), nil
}

// MarkSucceeded promotes a pending record once the gateway confirms.
func (repo *payoutRepository) MarkSucceeded(ctx context.Context, requestID uuid.UUID, gatewayTransferID string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PayoutTransferModel{}).
		Where("request_id = ?", requestID).
		Updates(map[string]any{
			"status":              entity.PayoutSucceeded.String(),
			"gateway_transfer_id": gatewayTransferID,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to mark payout succeeded")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPayoutNotFound
	}

	return nil
}

// FindPending lists pending transfers for the reconciler's retry sweep,
// oldest attempt first.
func (repo *payoutRepository) FindPending(ctx context.Context, limit int) ([]*entity.PayoutTransfer, error) {
	var transferModels []*model.PayoutTransferModel
	err := repo.db.WithContext(ctx).
		Where("status = ?", entity.PayoutPending.String()).
		Order("created_at ASC").
		Limit(limit).
		Find(&transferModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list pending payouts")
	}

	transfers := make([]*entity.PayoutTransfer, 0, len(transferModels))
	for _, transferM := range transferModels {
		transfers = append(transfers, toPayoutTransferDomain(transferM))
	}

	return transfers, nil
}

// --- Mapper Functions ---

func toPayoutTransferDomain(data *model.PayoutTransferModel) *entity.PayoutTransfer {
	if data == nil {
		return nil
	}

	return &entity.PayoutTransfer{
		RequestID:         data.RequestID,
		ProviderID:        data.ProviderID,
		AccountRef:        data.AccountRef,
		AmountCents:       data.AmountCents,
		GatewayTransferID: data.GatewayTransferID,
		Status:            entity.PayoutStatus(data.Status),
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromPayoutTransferDomain(data *entity.PayoutTransfer) *model.PayoutTransferModel {
	if data == nil {
		return nil
	}

	return &model.PayoutTransferModel{
		RequestID:         data.RequestID,
		ProviderID:        data.ProviderID,
		AccountRef:        data.AccountRef,
		AmountCents:       data.AmountCents,
		GatewayTransferID: data.GatewayTransferID,
		Status:            data.Status.String(),
	}
}
