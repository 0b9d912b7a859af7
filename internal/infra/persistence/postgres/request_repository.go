// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// requestRepository implements the domain.RequestRepository interface over
// the two request tables. Active rows are mutable only through conditional
// stage updates; completed rows are append-only.
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository is the constructor for requestRepository.
func NewRequestRepository(db *gorm.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

// CreateActive inserts a new live request with its frozen cart, address,
// weather and charge documents.
func (repo *requestRepository) CreateActive(ctx context.Context, request *entity.Request) error {
	requestM, err := fromActiveRequestDomain(request)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(requestM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("request already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create active request")
	}

	return nil
}

// FindActiveByID retrieves a request from the active store.
func (repo *requestRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var requestM model.ActiveRequestModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRequestNotFound
		}

		return nil, errors.Wrap(err, "failed to find active request")
	}

	return toActiveRequestDomain(&requestM)
}

// FindLive lists unclaimed live requests for provider polling, oldest first.
func (repo *requestRepository) FindLive(ctx context.Context, limit int) ([]*entity.Request, error) {
	var requestModels []*model.ActiveRequestModel
	err := repo.db.WithContext(ctx).
		Where("stage = ?", entity.StageLive.String()).
		Order("created_at ASC").
		Limit(limit).
		Find(&requestModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list live requests")
	}

	return toActiveRequestDomains(requestModels)
}

// FindActiveByCustomer lists a customer's active requests, newest first.
func (repo *requestRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Request, error) {
	var requestModels []*model.ActiveRequestModel
	err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active requests by customer")
	}

	return toActiveRequestDomains(requestModels)
}

// FindActiveByProvider lists the requests a provider currently has claimed.
func (repo *requestRepository) FindActiveByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	var requestModels []*model.ActiveRequestModel
	err := repo.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active requests by provider")
	}

	return toActiveRequestDomains(requestModels)
}

// TransitionStage applies one conditional stage update. The WHERE clause
// carries the full precondition (current stage, and provider linkage where
// required), so concurrent actors race on a single atomic UPDATE and exactly
// one of them matches the row.
func (repo *requestRepository) TransitionStage(ctx context.Context, transition repository.StageTransition) error {
	query := repo.db.WithContext(ctx).
		Model(&model.ActiveRequestModel{}).
		Where("id = ? AND stage = ?", transition.RequestID, transition.FromStage.String())

	if transition.ExpectProvider != nil {
		query = query.Where("provider_id = ?", *transition.ExpectProvider)
	}
	if transition.ToStage == entity.StageAccepted {
		// Claiming requires the request to be unlinked.
		query = query.Where("provider_id IS NULL")
	}

	updates := map[string]any{
		"stage": transition.ToStage.String(),
	}
	switch transition.ToStage {
	case entity.StageAccepted:
		updates["accepted_at"] = transition.At
	case entity.StageStarted:
		updates["started_at"] = transition.At
	case entity.StageLive:
		// Cancellation returns the request to the pool with no claim history.
		updates["accepted_at"] = nil
	}
	if transition.SetProvider != nil {
		updates["provider_id"] = *transition.SetProvider
	}
	if transition.ClearProvider {
		updates["provider_id"] = nil
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to transition request stage")
	}
	if result.RowsAffected == 0 {
		// Distinguish a lost race from a request that is not active at all.
		var count int64
		if err := repo.db.WithContext(ctx).
			Model(&model.ActiveRequestModel{}).
			Where("id = ?", transition.RequestID).
			Count(&count).Error; err != nil {
			return errors.Wrap(err, "failed to check request existence")
		}
		if count == 0 {
			return repository.ErrRequestNotFound
		}

		return repository.ErrStagePreconditionFailed
	}

	return nil
}

// CreateCompleted inserts the completed record. ON CONFLICT DO NOTHING on the
// shared primary key makes a retried completion a no-op instead of an error.
func (repo *requestRepository) CreateCompleted(ctx context.Context, request *entity.Request) error {
	requestM, err := fromCompletedRequestDomain(request)
	if err != nil {
		return err
	}

	err = repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(requestM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create completed request")
	}

	return nil
}

// FindCompletedByID retrieves a request from the completed store.
func (repo *requestRepository) FindCompletedByID(ctx context.Context, id uuid.UUID) (*entity.Request, error) {
	var requestM model.CompletedRequestModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRequestNotFound
		}

		return nil, errors.Wrap(err, "failed to find completed request")
	}

	return toCompletedRequestDomain(&requestM)
}

// FindCompletedByCustomer lists a customer's completed requests, newest first.
func (repo *requestRepository) FindCompletedByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.Request, error) {
	var requestModels []*model.CompletedRequestModel
	err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("completed_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list completed requests by customer")
	}

	return toCompletedRequestDomains(requestModels)
}

// FindCompletedByProvider lists a provider's completed requests, newest first.
func (repo *requestRepository) FindCompletedByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	var requestModels []*model.CompletedRequestModel
	err := repo.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("completed_at DESC").
		Find(&requestModels).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list completed requests by provider")
	}

	return toCompletedRequestDomains(requestModels)
}

// DeleteActive removes a request from the active store. Zero rows affected
// means a previous attempt already deleted it, which is success here.
func (repo *requestRepository) DeleteActive(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ActiveRequestModel{}).Error
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// FindMigrationStragglers lists request IDs present in both stores. Such rows
// only exist when a crash hit between the completed insert and the active
// delete; the reconciler re-runs the delete for each.
func (repo *requestRepository) FindMigrationStragglers(ctx context.Context, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := repo.db.WithContext(ctx).
		Model(&model.ActiveRequestModel{}).
		Select("active_requests.id").
		Joins("JOIN completed_requests ON completed_requests.id = active_requests.id").
		Limit(limit).
		Find(&ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to find migration stragglers")
	}

	return ids, nil
}

// --- Mapper Functions ---
// The frozen documents marshal to JSONB on the way in and unmarshal whole on
// the way out; nothing ever updates them column-wise.

func fromActiveRequestDomain(data *entity.Request) (*model.ActiveRequestModel, error) {
	docs, err := marshalRequestDocs(data)
	if err != nil {
		return nil, err
	}

	return &model.ActiveRequestModel{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		ProviderID: data.ProviderID,
		Stage:      data.Stage.String(),
		Items:      docs.items,
		Address:    docs.address,
		Weather:    docs.weather,
		Charge:     docs.charge,
		CreatedAt:  data.CreatedAt,
		AcceptedAt: data.AcceptedAt,
		StartedAt:  data.StartedAt,
	}, nil
}

func toActiveRequestDomain(data *model.ActiveRequestModel) (*entity.Request, error) {
	request := &entity.Request{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		ProviderID: data.ProviderID,
		Stage:      entity.Stage(data.Stage),
		CreatedAt:  data.CreatedAt,
		AcceptedAt: data.AcceptedAt,
		StartedAt:  data.StartedAt,
	}
	if err := unmarshalRequestDocs(request, data.Items, data.Address, data.Weather, data.Charge); err != nil {
		return nil, err
	}

	return request, nil
}

func toActiveRequestDomains(data []*model.ActiveRequestModel) ([]*entity.Request, error) {
	requests := make([]*entity.Request, 0, len(data))
	for _, requestM := range data {
		request, err := toActiveRequestDomain(requestM)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

func fromCompletedRequestDomain(data *entity.Request) (*model.CompletedRequestModel, error) {
	docs, err := marshalRequestDocs(data)
	if err != nil {
		return nil, err
	}

	return &model.CompletedRequestModel{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		ProviderID:  data.ProviderID,
		Items:       docs.items,
		Address:     docs.address,
		Weather:     docs.weather,
		Charge:      docs.charge,
		CreatedAt:   data.CreatedAt,
		AcceptedAt:  data.AcceptedAt,
		StartedAt:   data.StartedAt,
		CompletedAt: data.CompletedAt,
	}, nil
}

func toCompletedRequestDomain(data *model.CompletedRequestModel) (*entity.Request, error) {
	request := &entity.Request{
		ID:          data.ID,
		CustomerID:  data.CustomerID,
		ProviderID:  data.ProviderID,
		Stage:       entity.StageCompleted,
		CreatedAt:   data.CreatedAt,
		AcceptedAt:  data.AcceptedAt,
		StartedAt:   data.StartedAt,
		CompletedAt: data.CompletedAt,
	}
	if err := unmarshalRequestDocs(request, data.Items, data.Address, data.Weather, data.Charge); err != nil {
		return nil, err
	}

	return request, nil
}

func toCompletedRequestDomains(data []*model.CompletedRequestModel) ([]*entity.Request, error) {
	requests := make([]*entity.Request, 0, len(data))
	for _, requestM := range data {
		request, err := toCompletedRequestDomain(requestM)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, nil
}

type requestDocs struct {
	items   datatypes.JSON
	address datatypes.JSON
	weather datatypes.JSON
	charge  datatypes.JSON
}

func marshalRequestDocs(data *entity.Request) (requestDocs, error) {
	var docs requestDocs

	items, err := json.Marshal(data.Items)
	if err != nil {
		return docs, errors.Wrap(err, "failed to marshal request items")
	}
	address, err := json.Marshal(data.Address)
	if err != nil {
		return docs, errors.Wrap(err, "failed to marshal request address")
	}
	weather, err := json.Marshal(data.Weather)
	if err != nil {
		return docs, errors.Wrap(err, "failed to marshal request weather")
	}
	charge, err := json.Marshal(data.Charge)
	if err != nil {
		return docs, errors.Wrap(err, "failed to marshal request charge")
	}

	docs.items = datatypes.JSON(items)
	docs.address = datatypes.JSON(address)
	docs.weather = datatypes.JSON(weather)
	docs.charge = datatypes.JSON(charge)

	return docs, nil
}

func unmarshalRequestDocs(request *entity.Request, items, address, weather, charge datatypes.JSON) error {
	if err := json.Unmarshal(items, &request.Items); err != nil {
		return errors.Wrap(err, "failed to unmarshal request items")
	}
	if err := json.Unmarshal(address, &request.Address); err != nil {
		return errors.Wrap(err, "failed to unmarshal request address")
	}
	if err := json.Unmarshal(weather, &request.Weather); err != nil {
		return errors.Wrap(err, "failed to unmarshal request weather")
	}
	if err := json.Unmarshal(charge, &request.Charge); err != nil {
		return errors.Wrap(err, "failed to unmarshal request charge")
	}

	return nil
}
