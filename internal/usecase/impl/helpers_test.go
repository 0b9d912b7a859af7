package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"plowline/internal/domain/entity"
	"plowline/internal/domain/repository"
	"plowline/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// --- In-memory stores ---
//
// The lifecycle tests need real compare-and-set semantics (two goroutines
// racing on Accept), so the request store is a locked map rather than a
// call-recording mock.

type fakeStores struct {
	mu sync.Mutex

	users         map[uuid.UUID]*entity.User
	credentials   map[string]*entity.Credential
	items         map[uuid.UUID]map[uuid.UUID]*entity.ServiceItem // userID -> itemID -> item
	itemOrder     map[uuid.UUID][]uuid.UUID
	addresses     map[uuid.UUID]map[uuid.UUID]*entity.Address
	active        map[uuid.UUID]*entity.Request
	completed     map[uuid.UUID]*entity.Request
	notifications []*entity.Notification
	payouts       map[uuid.UUID]*entity.PayoutTransfer
	refreshTokens map[string]*entity.RefreshToken
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		users:         make(map[uuid.UUID]*entity.User),
		credentials:   make(map[string]*entity.Credential),
		items:         make(map[uuid.UUID]map[uuid.UUID]*entity.ServiceItem),
		itemOrder:     make(map[uuid.UUID][]uuid.UUID),
		addresses:     make(map[uuid.UUID]map[uuid.UUID]*entity.Address),
		active:        make(map[uuid.UUID]*entity.Request),
		completed:     make(map[uuid.UUID]*entity.Request),
		payouts:       make(map[uuid.UUID]*entity.PayoutTransfer),
		refreshTokens: make(map[string]*entity.RefreshToken),
	}
}

// --- TransactionManager ---

type fakeTxManager struct {
	stores *fakeStores
	// failCreateActive makes the submission persist step fail, simulating a
	// crash after a successful charge.
	failCreateActive bool
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{stores: m.stores, failCreateActive: m.failCreateActive})
}

type fakeRepoFactory struct {
	stores           *fakeStores
	failCreateActive bool
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{f.stores} }
func (f *fakeRepoFactory) CredentialRepo() repository.CredentialRepository {
	return &fakeCredentialRepo{f.stores}
}
func (f *fakeRepoFactory) CartRepo() repository.CartRepository { return &fakeCartRepo{f.stores} }
func (f *fakeRepoFactory) AddressRepo() repository.AddressRepository {
	return &fakeAddressRepo{f.stores}
}
func (f *fakeRepoFactory) RequestRepo() repository.RequestRepository {
	return &fakeRequestRepo{stores: f.stores, failCreateActive: f.failCreateActive}
}
func (f *fakeRepoFactory) NotificationRepo() repository.NotificationRepository {
	return &fakeNotificationRepo{f.stores}
}
func (f *fakeRepoFactory) PayoutRepo() repository.PayoutRepository { return &fakePayoutRepo{f.stores} }
func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{f.stores}
}

// --- UserRepository ---

type fakeUserRepo struct{ stores *fakeStores }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	user, ok := r.stores.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	for _, user := range r.stores.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CustomerProfile != nil {
		user.CustomerProfile.UserID = user.ID
	}
	if user.ProviderProfile != nil {
		user.ProviderProfile.UserID = user.ID
	}
	clone := *user
	r.stores.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.stores.users[user.ID] = &clone

	return nil
}

func (r *fakeUserRepo) SetPayoutAccount(_ context.Context, userID uuid.UUID, accountRef string, onboarded bool) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	user, ok := r.stores.users[userID]
	if !ok || user.ProviderProfile == nil {
		return repository.ErrUserNotFound
	}
	user.ProviderProfile.PayoutAccountRef = accountRef
	user.ProviderProfile.Onboarded = onboarded

	return nil
}

// --- CredentialRepository ---

type fakeCredentialRepo struct{ stores *fakeStores }

func (r *fakeCredentialRepo) CreateCredential(_ context.Context, credential *entity.Credential) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if credential.ID == uuid.Nil {
		credential.ID = uuid.New()
	}
	clone := *credential
	r.stores.credentials[credential.Email] = &clone

	return nil
}

func (r *fakeCredentialRepo) FindByEmail(_ context.Context, email string) (*entity.Credential, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	credential, ok := r.stores.credentials[email]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	clone := *credential

	return &clone, nil
}

// --- CartRepository ---

type fakeCartRepo struct{ stores *fakeStores }

func (r *fakeCartRepo) CreateItem(_ context.Context, item *entity.ServiceItem) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if r.stores.items[item.UserID] == nil {
		r.stores.items[item.UserID] = make(map[uuid.UUID]*entity.ServiceItem)
	}
	clone := *item
	r.stores.items[item.UserID][item.ID] = &clone
	r.stores.itemOrder[item.UserID] = append(r.stores.itemOrder[item.UserID], item.ID)

	return nil
}

func (r *fakeCartRepo) FindItem(_ context.Context, userID, itemID uuid.UUID) (*entity.ServiceItem, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	item, ok := r.stores.items[userID][itemID]
	if !ok {
		return nil, repository.ErrItemNotFound
	}
	clone := *item

	return &clone, nil
}

func (r *fakeCartRepo) ListItems(_ context.Context, userID uuid.UUID) ([]*entity.ServiceItem, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var items []*entity.ServiceItem
	for _, id := range r.stores.itemOrder[userID] {
		if item, ok := r.stores.items[userID][id]; ok {
			clone := *item
			items = append(items, &clone)
		}
	}

	return items, nil
}

func (r *fakeCartRepo) UpdateItem(_ context.Context, item *entity.ServiceItem) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.items[item.UserID][item.ID]; !ok {
		return repository.ErrItemNotFound
	}
	clone := *item
	r.stores.items[item.UserID][item.ID] = &clone

	return nil
}

func (r *fakeCartRepo) DeleteItem(_ context.Context, userID, itemID uuid.UUID) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.items[userID][itemID]; !ok {
		return repository.ErrItemNotFound
	}
	delete(r.stores.items[userID], itemID)

	return nil
}

func (r *fakeCartRepo) ClearItems(_ context.Context, userID uuid.UUID) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	delete(r.stores.items, userID)
	delete(r.stores.itemOrder, userID)

	return nil
}

// --- AddressRepository ---

type fakeAddressRepo struct{ stores *fakeStores }

func (r *fakeAddressRepo) CreateAddress(_ context.Context, address *entity.Address) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if r.stores.addresses[address.UserID] == nil {
		r.stores.addresses[address.UserID] = make(map[uuid.UUID]*entity.Address)
	}
	clone := *address
	r.stores.addresses[address.UserID][address.ID] = &clone

	return nil
}

func (r *fakeAddressRepo) FindAddressByID(_ context.Context, userID, id uuid.UUID) (*entity.Address, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	address, ok := r.stores.addresses[userID][id]
	if !ok {
		return nil, repository.ErrAddressNotFound
	}
	clone := *address

	return &clone, nil
}

func (r *fakeAddressRepo) FindAddressesByUser(_ context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var addresses []*entity.Address
	for _, address := range r.stores.addresses[userID] {
		clone := *address
		addresses = append(addresses, &clone)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return addresses[i].CreatedAt.Before(addresses[j].CreatedAt)
	})

	return addresses, nil
}

func (r *fakeAddressRepo) UpdateAddress(_ context.Context, address *entity.Address) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.addresses[address.UserID][address.ID]; !ok {
		return repository.ErrAddressNotFound
	}
	clone := *address
	r.stores.addresses[address.UserID][address.ID] = &clone

	return nil
}

func (r *fakeAddressRepo) DeleteAddress(_ context.Context, userID, id uuid.UUID) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.addresses[userID][id]; !ok {
		return repository.ErrAddressNotFound
	}
	delete(r.stores.addresses[userID], id)

	return nil
}

// --- RequestRepository ---

type fakeRequestRepo struct {
	stores           *fakeStores
	failCreateActive bool
	// failDeleteActive simulates a crash between completed-insert and
	// active-delete, the two-phase migration hazard.
	failDeleteActive bool
}

func (r *fakeRequestRepo) CreateActive(_ context.Context, request *entity.Request) error {
	if r.failCreateActive {
		return repository.ErrRequestNotFound // any persistence failure will do
	}
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	clone := cloneRequest(request)
	r.stores.active[request.ID] = clone

	return nil
}

func (r *fakeRequestRepo) FindActiveByID(_ context.Context, id uuid.UUID) (*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	request, ok := r.stores.active[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}

	return cloneRequest(request), nil
}

func (r *fakeRequestRepo) FindLive(_ context.Context, limit int) ([]*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var live []*entity.Request
	for _, request := range r.stores.active {
		if request.Stage == entity.StageLive {
			live = append(live, cloneRequest(request))
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].CreatedAt.Before(live[j].CreatedAt) })
	if len(live) > limit {
		live = live[:limit]
	}

	return live, nil
}

func (r *fakeRequestRepo) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) ([]*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var requests []*entity.Request
	for _, request := range r.stores.active {
		if request.CustomerID == customerID {
			requests = append(requests, cloneRequest(request))
		}
	}

	return requests, nil
}

func (r *fakeRequestRepo) FindActiveByProvider(_ context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var requests []*entity.Request
	for _, request := range r.stores.active {
		if request.ProviderID != nil && *request.ProviderID == providerID {
			requests = append(requests, cloneRequest(request))
		}
	}

	return requests, nil
}

// TransitionStage mirrors the conditional UPDATE the real store runs: the
// mutation applies only while the lock is held and the guards still match.
func (r *fakeRequestRepo) TransitionStage(_ context.Context, t repository.StageTransition) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()

	request, ok := r.stores.active[t.RequestID]
	if !ok {
		return repository.ErrRequestNotFound
	}
	if request.Stage != t.FromStage {
		return repository.ErrStagePreconditionFailed
	}
	if t.ExpectProvider != nil {
		if request.ProviderID == nil || *request.ProviderID != *t.ExpectProvider {
			return repository.ErrStagePreconditionFailed
		}
	}
	if t.ToStage == entity.StageAccepted && request.ProviderID != nil {
		return repository.ErrStagePreconditionFailed
	}

	request.Stage = t.ToStage
	if t.SetProvider != nil {
		providerID := *t.SetProvider
		request.ProviderID = &providerID
	}
	if t.ClearProvider {
		request.ProviderID = nil
	}
	at := t.At
	switch t.ToStage {
	case entity.StageAccepted:
		request.AcceptedAt = &at
	case entity.StageStarted:
		request.StartedAt = &at
	case entity.StageLive:
		request.AcceptedAt = nil
		request.StartedAt = nil
	}

	return nil
}

func (r *fakeRequestRepo) CreateCompleted(_ context.Context, request *entity.Request) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.completed[request.ID]; ok {
		return nil // duplicate insert is a no-op
	}
	r.stores.completed[request.ID] = cloneRequest(request)

	return nil
}

func (r *fakeRequestRepo) FindCompletedByID(_ context.Context, id uuid.UUID) (*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	request, ok := r.stores.completed[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}

	return cloneRequest(request), nil
}

func (r *fakeRequestRepo) FindCompletedByCustomer(_ context.Context, customerID uuid.UUID) ([]*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var requests []*entity.Request
	for _, request := range r.stores.completed {
		if request.CustomerID == customerID {
			requests = append(requests, cloneRequest(request))
		}
	}

	return requests, nil
}

func (r *fakeRequestRepo) FindCompletedByProvider(_ context.Context, providerID uuid.UUID) ([]*entity.Request, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var requests []*entity.Request
	for _, request := range r.stores.completed {
		if request.ProviderID != nil && *request.ProviderID == providerID {
			requests = append(requests, cloneRequest(request))
		}
	}

	return requests, nil
}

func (r *fakeRequestRepo) DeleteActive(_ context.Context, id uuid.UUID) error {
	if r.failDeleteActive {
		return repository.ErrStagePreconditionFailed // simulated crash point
	}
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	delete(r.stores.active, id) // absent row is a no-op

	return nil
}

func (r *fakeRequestRepo) FindMigrationStragglers(_ context.Context, limit int) ([]uuid.UUID, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var ids []uuid.UUID
	for id := range r.stores.active {
		if _, ok := r.stores.completed[id]; ok {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}

	return ids, nil
}

func cloneRequest(request *entity.Request) *entity.Request {
	clone := *request
	clone.Items = append([]entity.ServiceItem(nil), request.Items...)
	if request.ProviderID != nil {
		providerID := *request.ProviderID
		clone.ProviderID = &providerID
	}

	return &clone
}

// --- NotificationRepository ---

type fakeNotificationRepo struct{ stores *fakeStores }

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, notification *entity.Notification) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	clone := *notification
	r.stores.notifications = append(r.stores.notifications, &clone)

	return nil
}

func (r *fakeNotificationRepo) FindNotificationsByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var owned []*entity.Notification
	for i := len(r.stores.notifications) - 1; i >= 0; i-- {
		if r.stores.notifications[i].UserID == userID {
			clone := *r.stores.notifications[i]
			owned = append(owned, &clone)
		}
	}
	if offset >= len(owned) {
		return nil, nil
	}
	owned = owned[offset:]
	if len(owned) > limit {
		owned = owned[:limit]
	}

	return owned, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	for _, notification := range r.stores.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.Read = true

			return nil
		}
	}

	return repository.ErrNotificationNotFound
}

// --- PayoutRepository ---

type fakePayoutRepo struct{ stores *fakeStores }

func (r *fakePayoutRepo) CreatePending(_ context.Context, transfer *entity.PayoutTransfer) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if _, ok := r.stores.payouts[transfer.RequestID]; ok {
		return repository.ErrPayoutAlreadyRecorded
	}
	clone := *transfer
	r.stores.payouts[transfer.RequestID] = &clone

	return nil
}

func (r *fakePayoutRepo) FindByRequestID(_ context.Context, requestID uuid.UUID) (*entity.PayoutTransfer, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	transfer, ok := r.stores.payouts[requestID]
	if !ok {
		return nil, repository.ErrPayoutNotFound
	}
	clone := *transfer

	return &clone, nil
}

func (r *fakePayoutRepo) MarkSucceeded(_ context.Context, requestID uuid.UUID, gatewayTransferID string) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	transfer, ok := r.stores.payouts[requestID]
	if !ok {
		return repository.ErrPayoutNotFound
	}
	transfer.Status = entity.PayoutSucceeded
	transfer.GatewayTransferID = gatewayTransferID
	transfer.UpdatedAt = time.Now()

	return nil
}

func (r *fakePayoutRepo) FindPending(_ context.Context, limit int) ([]*entity.PayoutTransfer, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	var pending []*entity.PayoutTransfer
	for _, transfer := range r.stores.payouts {
		if transfer.Status == entity.PayoutPending {
			clone := *transfer
			pending = append(pending, &clone)
			if len(pending) == limit {
				break
			}
		}
	}

	return pending, nil
}

// --- RefreshTokenRepository ---

type fakeRefreshTokenRepo struct{ stores *fakeStores }

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	clone := *token
	r.stores.refreshTokens[token.TokenHash] = &clone

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	token, ok := r.stores.refreshTokens[tokenHash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, repository.ErrRefreshTokenExpired
	}
	clone := *token

	return &clone, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	delete(r.stores.refreshTokens, tokenHash)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	for hash, token := range r.stores.refreshTokens {
		if token.UserID == userID {
			delete(r.stores.refreshTokens, hash)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	r.stores.mu.Lock()
	defer r.stores.mu.Unlock()
	for hash, token := range r.stores.refreshTokens {
		if time.Now().After(token.ExpiresAt) {
			delete(r.stores.refreshTokens, hash)
		}
	}

	return nil
}

// --- Mock collaborators ---

type mockPaymentGateway struct{ mock.Mock }

func (m *mockPaymentGateway) Charge(ctx context.Context, amountCents int64, currency, paymentToken, idempotencyKey string) (*service.ChargeResult, error) {
	args := m.Called(ctx, amountCents, currency, paymentToken, idempotencyKey)
	if result := args.Get(0); result != nil {
		return result.(*service.ChargeResult), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPaymentGateway) Transfer(ctx context.Context, accountRef string, amountCents int64, idempotencyKey string) (*service.TransferResult, error) {
	args := m.Called(ctx, accountRef, amountCents, idempotencyKey)
	if result := args.Get(0); result != nil {
		return result.(*service.TransferResult), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPaymentGateway) LookupCharge(ctx context.Context, idempotencyKey string) (*service.ChargeResult, error) {
	args := m.Called(ctx, idempotencyKey)
	if result := args.Get(0); result != nil {
		return result.(*service.ChargeResult), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPaymentGateway) LookupTransfer(ctx context.Context, idempotencyKey string) (*service.TransferResult, error) {
	args := m.Called(ctx, idempotencyKey)
	if result := args.Get(0); result != nil {
		return result.(*service.TransferResult), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockPaymentGateway) CreateAccountLink(ctx context.Context, email string) (*service.AccountLink, error) {
	args := m.Called(ctx, email)
	if result := args.Get(0); result != nil {
		return result.(*service.AccountLink), args.Error(1)
	}

	return nil, args.Error(1)
}

// stubWeather returns a fixed snapshot for every observation.
type stubWeather struct {
	snapshot entity.WeatherSnapshot
	err      error
}

func (s *stubWeather) Observe(context.Context, float64, float64) (*entity.WeatherSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snapshot := s.snapshot

	return &snapshot, nil
}

// stubUploads treats every reference as present.
type stubUploads struct{}

func (stubUploads) ResolveURL(_ context.Context, imageRef string, _ time.Duration) (string, error) {
	return "https://uploads.test/" + imageRef, nil
}

func (stubUploads) Exists(context.Context, string) (bool, error) { return true, nil }

// stubPush swallows every push.
type stubPush struct{}

func (stubPush) SendToUser(context.Context, string, string, string, map[string]string) error {
	return nil
}

// stubPublisher records published lifecycle events.
type stubPublisher struct {
	mu     sync.Mutex
	events []*service.LifecycleEvent
}

func (p *stubPublisher) PublishLifecycleEvent(_ context.Context, event *service.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *stubPublisher) Close() error { return nil }

// stubTokenService issues deterministic token strings.
type stubTokenService struct{}

func (stubTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	return "access-" + userID.String(), "refresh-" + userID.String(), nil
}

func (stubTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	userID, err := uuid.Parse(tokenString[len("refresh-"):])
	if err != nil {
		return nil, err
	}

	return &service.Claims{UserID: userID, Type: "refresh"}, nil
}

func (stubTokenService) HashToken(token string) string { return "hash-" + token }

func (stubTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

// stubHasher is a transparent password hasher for tests.
type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) { return "hashed-" + password, nil }

func (stubHasher) Check(password, hash string) bool { return "hashed-"+password == hash }
