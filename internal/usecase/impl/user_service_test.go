package impl

import (
	"context"
	"testing"

	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/service"
	"plowline/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserHarness(t *testing.T) (usecase.UserUsecase, *fakeStores, *mockPaymentGateway) {
	t.Helper()

	stores := newFakeStores()
	gateway := &mockPaymentGateway{}

	svc := NewUserService(UserServiceParams{
		TxManager:        &fakeTxManager{stores: stores},
		UserRepo:         &fakeUserRepo{stores},
		CredentialRepo:   &fakeCredentialRepo{stores},
		RefreshTokenRepo: &fakeRefreshTokenRepo{stores},
		Hasher:           stubHasher{},
		TokenService:     stubTokenService{},
		Gateway:          gateway,
		Logger:           testLogger(),
	})

	return svc, stores, gateway
}

func TestUserService_RegisterCustomerAndLogin(t *testing.T) {
	svc, _, _ := newUserHarness(t)
	ctx := context.Background()

	registered, err := svc.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{
		Name:     "Dana Frost",
		Email:    "dana@example.com",
		Password: "s3cret-pass",
		Phone:    "555-0100",
	})
	require.NoError(t, err)
	require.NotNil(t, registered.User.CustomerProfile)
	assert.Nil(t, registered.User.ProviderProfile)
	assert.Equal(t, "555-0100", registered.User.CustomerProfile.DefaultPhone)

	login, err := svc.Login(ctx, &usecase.LoginInput{Email: "dana@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, registered.User.ID, login.User.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserHarness(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{
		Name: "First", Email: "dup@example.com", Password: "password1",
	})
	require.NoError(t, err)

	_, err = svc.RegisterProvider(ctx, &usecase.RegisterProviderInput{
		Name: "Second", Email: "dup@example.com", Password: "password2",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, _, _ := newUserHarness(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{
		Name: "Dana", Email: "dana@example.com", Password: "right-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "dana@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_RefreshAndLogout(t *testing.T) {
	svc, _, _ := newUserHarness(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{
		Name: "Dana", Email: "dana@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	login, err := svc.Login(ctx, &usecase.LoginInput{Email: "dana@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, &usecase.LogoutInput{RefreshToken: login.RefreshToken}))

	// The session is gone; refresh now fails.
	_, err = svc.RefreshToken(ctx, &usecase.RefreshTokenInput{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)
}

func TestUserService_OnboardProvider(t *testing.T) {
	svc, stores, gateway := newUserHarness(t)
	ctx := context.Background()

	registered, err := svc.RegisterProvider(ctx, &usecase.RegisterProviderInput{
		Name: "Pat Plow", Email: "pat@example.com", Password: "plow-pass",
	})
	require.NoError(t, err)

	gateway.On("CreateAccountLink", mock.Anything, "pat@example.com").
		Return(&service.AccountLink{AccountRef: "acct_pat", URL: "https://gateway.test/onboard/pat"}, nil).Once()

	output, err := svc.OnboardProvider(ctx, registered.User.ID)

	require.NoError(t, err)
	assert.Equal(t, "acct_pat", output.AccountRef)
	assert.Equal(t, "https://gateway.test/onboard/pat", output.OnboardingURL)

	stored := stores.users[registered.User.ID]
	assert.Equal(t, "acct_pat", stored.ProviderProfile.PayoutAccountRef)
	assert.True(t, stored.ProviderProfile.Onboarded)
}

func TestUserService_OnboardProvider_CustomerForbidden(t *testing.T) {
	svc, _, gateway := newUserHarness(t)
	ctx := context.Background()

	registered, err := svc.RegisterCustomer(ctx, &usecase.RegisterCustomerInput{
		Name: "Dana", Email: "dana@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.OnboardProvider(ctx, registered.User.ID)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	gateway.AssertNotCalled(t, "CreateAccountLink", mock.Anything, mock.Anything)
}
