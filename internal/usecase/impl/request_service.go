package impl

import (
	"context"
	"log/slog"
	"math"
	"time"

	"plowline/config"
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

const (
	defaultLiveListLimit = 50
	imageURLExpiry       = 15 * time.Minute
)

// requestService implements the RequestUsecase interface. It is the lifecycle
// state machine: every stage mutation goes through a conditional update on
// the currently persisted stage, and every external financial call happens
// before the state change it gates, keyed so retries cannot duplicate it.
type requestService struct {
	txManager   repository.TransactionManager
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	gateway     service.PaymentGateway
	weather     service.WeatherProvider
	uploads     service.UploadStore
	settlement  usecase.SettlementUsecase
	notifier    usecase.NotificationUsecase
	publisher   service.EventPublisher
	taxRate     float64
	currency    string
	logger      *slog.Logger
}

// RequestServiceParams holds dependencies for requestService, injected by Fx.
type RequestServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	RequestRepo repository.RequestRepository
	UserRepo    repository.UserRepository
	Gateway     service.PaymentGateway
	Weather     service.WeatherProvider
	Uploads     service.UploadStore
	Settlement  usecase.SettlementUsecase
	Notifier    usecase.NotificationUsecase
	Publisher   service.EventPublisher
	Config      *config.Config
	Logger      *slog.Logger
}

// NewRequestService is the constructor for requestService.
func NewRequestService(params RequestServiceParams) usecase.RequestUsecase {
	taxRate := 0.0
	currency := "usd"
	if params.Config != nil && params.Config.Settlement != nil {
		taxRate = params.Config.Settlement.TaxRate
		if params.Config.Settlement.Currency != "" {
			currency = params.Config.Settlement.Currency
		}
	}

	return &requestService{
		txManager:   params.TxManager,
		requestRepo: params.RequestRepo,
		userRepo:    params.UserRepo,
		gateway:     params.Gateway,
		weather:     params.Weather,
		uploads:     params.Uploads,
		settlement:  params.Settlement,
		notifier:    params.Notifier,
		publisher:   params.Publisher,
		taxRate:     taxRate,
		currency:    currency,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *requestService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Submit turns the customer's cart into a live request.
//
// The charge happens before any request state is persisted. The request id is
// generated up front and used as the charge idempotency key; if the gateway
// call fails with an unknown outcome, the idempotency record is re-queried
// under that key before the submission is failed. After a successful charge,
// the request insert and the cart clear commit in one transaction.
func (srv *requestService) Submit(ctx context.Context, input *usecase.SubmitRequestInput) (*usecase.SubmitRequestOutput, error) {
	srv.log(ctx).Info("Submitting request", slog.Any("customerID", input.CustomerID), slog.Any("addressID", input.AddressID))

	items, address, err := srv.loadSubmission(ctx, input.CustomerID, input.AddressID)
	if err != nil {
		return nil, err
	}

	// One observation per submission; every item price derives from it.
	snapshot, err := srv.weather.Observe(ctx, address.Latitude, address.Longitude)
	if err != nil {
		srv.log(ctx).Warn("Weather observation failed at submission, using clear-weather pricing", slog.Any("error", err))
		snapshot = &entity.WeatherSnapshot{Type: entity.PrecipitationNone, CapturedAt: time.Now()}
	}

	var totalCents int64
	for _, item := range items {
		item.PriceCents = pricing.PriceCents(*snapshot, item.JobSize)
		totalCents += item.PriceCents
	}
	chargeCents := int64(math.Round(float64(totalCents) * (1 + srv.taxRate)))

	requestID := uuid.New()

	chargeResult, err := srv.captureCharge(ctx, chargeCents, input.PaymentToken, requestID.String())
	if err != nil {
		srv.log(ctx).Warn("Charge failed, submission aborted with no state change",
			slog.Any("customerID", input.CustomerID), slog.Any("error", err))

		if errors.Is(err, service.ErrChargeDeclined) {
			return nil, errors.Wrap(domainerrors.ErrPaymentDeclined, "charge declined")
		}

		return nil, errors.Wrap(err, "failed to charge cart total")
	}

	request := &entity.Request{
		ID:         requestID,
		CustomerID: input.CustomerID,
		Items:      frozenItems(items),
		Address:    address.Snapshot(),
		Weather:    *snapshot,
		Charge: entity.Charge{
			ID:          chargeResult.ChargeID,
			AmountCents: chargeResult.AmountCents,
			Currency:    chargeResult.Currency,
			CreatedAt:   chargeResult.CreatedAt,
		},
		Stage:     entity.StageLive,
		CreatedAt: time.Now(),
	}

	// Funds are captured at this point. The create must stick; it is retried
	// here rather than unwound, and escalates for manual reconciliation only
	// when the retry fails too.
	if err := srv.persistSubmission(ctx, request); err != nil {
		if retryErr := srv.persistSubmission(ctx, request); retryErr != nil {
			srv.log(ctx).Error("Failed to persist charged submission, manual reconciliation required",
				slog.Any("requestID", requestID),
				slog.String("chargeID", chargeResult.ChargeID),
				slog.Any("error", retryErr))

			return nil, errors.Wrap(retryErr, "failed to persist request after successful charge")
		}
	}

	srv.publishStageEvent(ctx, request, request.Charge.AmountCents)
	srv.log(ctx).Info("Request submitted",
		slog.Any("requestID", requestID),
		slog.Any("customerID", input.CustomerID),
		slog.Int64("chargeCents", chargeCents))

	return &usecase.SubmitRequestOutput{Request: request}, nil
}

// captureCharge drives the submission capture through the gateway. When the
// gateway is unreachable the outcome of the call is unknown, so the
// idempotency record is consulted before surfacing failure: a capture that
// actually went through is adopted instead of being abandoned and repeated
// under a fresh key on the customer's next submission.
func (srv *requestService) captureCharge(ctx context.Context, amountCents int64, paymentToken, idempotencyKey string) (*service.ChargeResult, error) {
	result, err := srv.gateway.Charge(ctx, amountCents, srv.currency, paymentToken, idempotencyKey)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, service.ErrGatewayUnavailable) {
		if existing, lookupErr := srv.gateway.LookupCharge(ctx, idempotencyKey); lookupErr == nil && existing != nil {
			srv.log(ctx).Info("Charge confirmed through idempotency lookup after gateway failure",
				slog.String("chargeID", existing.ChargeID))

			return existing, nil
		}
	}

	return nil, err
}

// loadSubmission validates the preconditions: non-empty cart, owned address.
func (srv *requestService) loadSubmission(ctx context.Context, customerID, addressID uuid.UUID) ([]*entity.ServiceItem, *entity.Address, error) {
	var items []*entity.ServiceItem
	var address *entity.Address

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()
		addressRepo := repoFactory.AddressRepo()

		var listErr error
		items, listErr = cartRepo.ListItems(ctx, customerID)
		if listErr != nil {
			return errors.Wrap(listErr, "failed to list cart items")
		}
		if len(items) == 0 {
			return errors.Wrap(domainerrors.ErrCartEmpty, "submission requires a non-empty cart")
		}

		var findErr error
		address, findErr = addressRepo.FindAddressByID(ctx, customerID, addressID)
		if findErr != nil {
			if errors.Is(findErr, repository.ErrAddressNotFound) {
				return errors.Wrap(domainerrors.ErrAddressRequired, "submission address not found")
			}

			return errors.Wrap(findErr, "failed to load submission address")
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return items, address, nil
}

// persistSubmission commits the request insert and the cart clear atomically.
func (srv *requestService) persistSubmission(ctx context.Context, request *entity.Request) error {
	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RequestRepo().CreateActive(ctx, request); err != nil {
			return errors.Wrap(err, "failed to create live request")
		}
		if err := repoFactory.CartRepo().ClearItems(ctx, request.CustomerID); err != nil {
			return errors.Wrap(err, "failed to clear submitted cart")
		}

		return nil
	})
}

func frozenItems(items []*entity.ServiceItem) []entity.ServiceItem {
	frozen := make([]entity.ServiceItem, 0, len(items))
	for _, item := range items {
		frozen = append(frozen, *item)
	}

	return frozen
}

// Accept claims a live request for a provider. The update matches only when
// the request is still live and unlinked, so exactly one of several racing
// providers wins; the rest see a stage conflict. The winner repeating the
// call is answered with success and no further effect.
func (srv *requestService) Accept(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	provider, err := srv.userRepo.FindByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "accept failed")
		}

		return nil, errors.Wrap(err, "failed to load accepting provider")
	}
	if provider.ProviderProfile == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only providers can accept requests")
	}

	now := time.Now()
	transition := repository.StageTransition{
		RequestID:   requestID,
		FromStage:   entity.StageLive,
		ToStage:     entity.StageAccepted,
		SetProvider: &providerID,
		At:          now,
	}

	if err := srv.requestRepo.TransitionStage(ctx, transition); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRequestNotFound, "accept failed")
		}
		if errors.Is(err, repository.ErrStagePreconditionFailed) {
			return srv.resolveAcceptConflict(ctx, requestID, providerID)
		}
		srv.log(ctx).Error("Failed to accept request", slog.Any("requestID", requestID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to accept request")
	}

	request, err := srv.requestRepo.FindActiveByID(ctx, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load accepted request")
	}

	srv.notify(ctx, request.CustomerID, "A snowtech has accepted your request.")
	srv.publishStageEvent(ctx, request, 0)
	srv.log(ctx).Info("Request accepted", slog.Any("requestID", requestID), slog.Any("providerID", providerID))

	return request, nil
}

// resolveAcceptConflict distinguishes the winner retrying from a loser: the
// same provider already linked gets a no-op success, anyone else a conflict.
func (srv *requestService) resolveAcceptConflict(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	request, findErr := srv.requestRepo.FindActiveByID(ctx, requestID)
	if findErr == nil && request.Stage == entity.StageAccepted &&
		request.ProviderID != nil && *request.ProviderID == providerID {
		return request, nil
	}

	return nil, errors.Wrap(domainerrors.ErrStageConflict, "request already claimed")
}

// Cancel returns an accepted request to the live pool. Only the linked
// provider may cancel; the request itself is never deleted.
func (srv *requestService) Cancel(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	transition := repository.StageTransition{
		RequestID:      requestID,
		FromStage:      entity.StageAccepted,
		ToStage:        entity.StageLive,
		ExpectProvider: &providerID,
		ClearProvider:  true,
		At:             time.Now(),
	}

	if err := srv.transition(ctx, transition, "cancel"); err != nil {
		return nil, err
	}

	request, err := srv.requestRepo.FindActiveByID(ctx, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cancelled request")
	}

	srv.notify(ctx, request.CustomerID, "Your snowtech had to cancel. The request is live again and visible to other snowtechs.")
	srv.publishStageEvent(ctx, request, 0)
	srv.log(ctx).Info("Request cancelled back to live", slog.Any("requestID", requestID), slog.Any("providerID", providerID))

	return request, nil
}

// Start marks an accepted request as in progress for the linked provider.
func (srv *requestService) Start(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	transition := repository.StageTransition{
		RequestID:      requestID,
		FromStage:      entity.StageAccepted,
		ToStage:        entity.StageStarted,
		ExpectProvider: &providerID,
		At:             time.Now(),
	}

	if err := srv.transition(ctx, transition, "start"); err != nil {
		return nil, err
	}

	request, err := srv.requestRepo.FindActiveByID(ctx, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load started request")
	}

	srv.notify(ctx, request.CustomerID, "Your snowtech has started working on your request.")
	srv.publishStageEvent(ctx, request, 0)
	srv.log(ctx).Info("Request started", slog.Any("requestID", requestID), slog.Any("providerID", providerID))

	return request, nil
}

// transition applies one conditional stage update and maps persistence
// failures onto the user-facing taxonomy.
func (srv *requestService) transition(ctx context.Context, t repository.StageTransition, action string) error {
	if err := srv.requestRepo.TransitionStage(ctx, t); err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return errors.Wrapf(domainerrors.ErrRequestNotFound, "%s failed", action)
		}
		if errors.Is(err, repository.ErrStagePreconditionFailed) {
			srv.log(ctx).Warn("Stage precondition failed",
				slog.String("action", action),
				slog.Any("requestID", t.RequestID),
				slog.String("fromStage", t.FromStage.String()))

			return errors.Wrapf(domainerrors.ErrStageConflict, "%s failed", action)
		}
		srv.log(ctx).Error("Stage transition failed", slog.String("action", action), slog.Any("requestID", t.RequestID), slog.Any("error", err))

		return errors.Wrapf(err, "failed to %s request", action)
	}

	return nil
}

// Complete settles a started request. Order matters:
//
//  1. compute the provider share from the captured charge
//  2. execute the transfer (idempotent by request id)
//  3. insert the completed record (duplicate insert is a no-op)
//  4. delete the active record (absent row is a no-op)
//  5. notify the customer
//
// A transfer failure leaves the request in started with a retry marker. A
// crash after step 3 leaves the request in both stores; the reconciler
// re-runs step 4, and a retried Complete call lands on the no-op paths.
func (srv *requestService) Complete(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	request, err := srv.requestRepo.FindActiveByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return srv.resolveCompleteReplay(ctx, requestID, providerID)
		}

		return nil, errors.Wrap(err, "failed to load request for completion")
	}

	if request.Stage != entity.StageStarted || request.ProviderID == nil || *request.ProviderID != providerID {
		return nil, errors.Wrap(domainerrors.ErrStageConflict, "complete requires a started request owned by the caller")
	}

	output, err := srv.settlement.Settle(ctx, request)
	if err != nil {
		srv.log(ctx).Error("Settlement failed, request stays started",
			slog.Any("requestID", requestID),
			slog.Any("providerID", providerID),
			slog.Any("error", err))

		if errors.Is(err, service.ErrAccountNotOnboarded) {
			return nil, errors.Wrap(domainerrors.ErrAccountNotOnboarded, "complete failed")
		}

		return nil, errors.Wrap(domainerrors.ErrPayoutFailed, "complete failed")
	}

	now := time.Now()
	completed := *request
	completed.Stage = entity.StageCompleted
	completed.CompletedAt = &now

	if err := srv.requestRepo.CreateCompleted(ctx, &completed); err != nil {
		srv.log(ctx).Error("Failed to write completed record, transfer already executed",
			slog.Any("requestID", requestID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist completed request")
	}

	// The completed record is durable; from here the active row is garbage
	// and its deletion may be re-run by anyone.
	if err := srv.requestRepo.DeleteActive(ctx, requestID); err != nil {
		srv.log(ctx).Warn("Failed to retire active record, reconciler will heal",
			slog.Any("requestID", requestID), slog.Any("error", err))
	}

	srv.notify(ctx, completed.CustomerID, "Your snow removal request is complete. Thanks for using Plowline!")
	srv.publishStageEvent(ctx, &completed, output.Transfer.AmountCents)
	srv.log(ctx).Info("Request completed",
		slog.Any("requestID", requestID),
		slog.Any("providerID", providerID),
		slog.Int64("payoutCents", output.Transfer.AmountCents))

	return &completed, nil
}

// resolveCompleteReplay answers a retried Complete whose earlier attempt
// already migrated the request: the completed record is the proof.
func (srv *requestService) resolveCompleteReplay(ctx context.Context, requestID, providerID uuid.UUID) (*entity.Request, error) {
	completed, err := srv.requestRepo.FindCompletedByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRequestNotFound, "complete failed")
		}

		return nil, errors.Wrap(err, "failed to check completed store")
	}

	if completed.ProviderID == nil || *completed.ProviderID != providerID {
		return nil, errors.Wrap(domainerrors.ErrStageConflict, "request was completed by another provider")
	}

	// Phase 4 may not have run before the retry; it is idempotent.
	if err := srv.requestRepo.DeleteActive(ctx, requestID); err != nil {
		srv.log(ctx).Warn("Failed to retire active record on replay", slog.Any("requestID", requestID), slog.Any("error", err))
	}

	return completed, nil
}

// GetRequest returns one request visible to its customer or linked provider.
func (srv *requestService) GetRequest(ctx context.Context, requestID, callerID uuid.UUID) (*entity.Request, error) {
	request, err := srv.findInEitherStore(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !requestVisibleTo(request, callerID) {
		// Live requests are browsable by any provider.
		if request.Stage != entity.StageLive {
			return nil, errors.Wrap(domainerrors.ErrRequestNotFound, "request not visible to caller")
		}
	}

	return request, nil
}

func (srv *requestService) findInEitherStore(ctx context.Context, requestID uuid.UUID) (*entity.Request, error) {
	request, err := srv.requestRepo.FindActiveByID(ctx, requestID)
	if err == nil {
		return request, nil
	}
	if !errors.Is(err, repository.ErrRequestNotFound) {
		return nil, errors.Wrap(err, "failed to load request")
	}

	request, err = srv.requestRepo.FindCompletedByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, errors.Wrap(domainerrors.ErrRequestNotFound, "request not found")
		}

		return nil, errors.Wrap(err, "failed to load completed request")
	}

	return request, nil
}

func requestVisibleTo(request *entity.Request, callerID uuid.UUID) bool {
	if request.CustomerID == callerID {
		return true
	}

	return request.ProviderID != nil && *request.ProviderID == callerID
}

// ListLive returns unclaimed live requests for providers to browse.
func (srv *requestService) ListLive(ctx context.Context, limit, offset int) ([]*entity.Request, error) {
	if limit <= 0 || limit > defaultLiveListLimit {
		limit = defaultLiveListLimit
	}

	requests, err := srv.requestRepo.FindLive(ctx, limit+offset)
	if err != nil {
		srv.log(ctx).Error("Failed to list live requests", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list live requests")
	}

	if offset >= len(requests) {
		return []*entity.Request{}, nil
	}

	return requests[offset:], nil
}

// ListByCustomer returns the customer's active and completed requests.
func (srv *requestService) ListByCustomer(ctx context.Context, customerID uuid.UUID) (active, completed []*entity.Request, err error) {
	active, err = srv.requestRepo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list active requests by customer")
	}

	completed, err = srv.requestRepo.FindCompletedByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list completed requests by customer")
	}

	return active, completed, nil
}

// ListByProvider returns the provider's active and completed requests.
func (srv *requestService) ListByProvider(ctx context.Context, providerID uuid.UUID) (active, completed []*entity.Request, err error) {
	active, err = srv.requestRepo.FindActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list active requests by provider")
	}

	completed, err = srv.requestRepo.FindCompletedByProvider(ctx, providerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list completed requests by provider")
	}

	return active, completed, nil
}

// ResolveItemImage resolves an item's image reference to a time-limited URL.
func (srv *requestService) ResolveItemImage(ctx context.Context, requestID, callerID, itemID uuid.UUID) (*usecase.RequestImageOutput, error) {
	request, err := srv.GetRequest(ctx, requestID, callerID)
	if err != nil {
		return nil, err
	}

	for i := range request.Items {
		if request.Items[i].ID != itemID {
			continue
		}
		if request.Items[i].ImageRef == "" {
			return nil, errors.Wrap(domainerrors.ErrNotFound, "item has no image")
		}

		url, err := srv.uploads.ResolveURL(ctx, request.Items[i].ImageRef, imageURLExpiry)
		if err != nil {
			srv.log(ctx).Error("Failed to resolve item image", slog.Any("requestID", requestID), slog.Any("itemID", itemID), slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to resolve item image")
		}

		return &usecase.RequestImageOutput{URL: url}, nil
	}

	return nil, errors.Wrap(domainerrors.ErrItemNotFound, "item not on request")
}

// notify appends to the customer's log; a failure is logged, never propagated,
// so a notification problem cannot roll back a committed transition.
func (srv *requestService) notify(ctx context.Context, userID uuid.UUID, message string) {
	if _, err := srv.notifier.Append(ctx, userID, message); err != nil {
		srv.log(ctx).Warn("Failed to append notification", slog.Any("userID", userID), slog.Any("error", err))
	}
}

// publishStageEvent emits a lifecycle event; fire-and-forget.
func (srv *requestService) publishStageEvent(ctx context.Context, request *entity.Request, amountCents int64) {
	event := &service.LifecycleEvent{
		TraceID:     deliverycontext.TraceIDFromContext(ctx),
		RequestID:   request.ID.String(),
		CustomerID:  request.CustomerID.String(),
		Stage:       request.Stage.String(),
		AmountCents: amountCents,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if request.ProviderID != nil {
		event.ProviderID = request.ProviderID.String()
	}

	if err := srv.publisher.PublishLifecycleEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish lifecycle event", slog.Any("requestID", request.ID), slog.Any("error", err))
	}
}
