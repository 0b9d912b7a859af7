package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "plowline/internal/delivery/context"
	"plowline/internal/domain/entity"
	domainerrors "plowline/internal/domain/errors"
	"plowline/internal/domain/repository"
	"plowline/internal/domain/service"
	"plowline/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	credentialRepo   repository.CredentialRepository
	refreshTokenRepo repository.RefreshTokenRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	gateway          service.PaymentGateway
	logger           *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	CredentialRepo   repository.CredentialRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Gateway          service.PaymentGateway
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		credentialRepo:   params.CredentialRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		gateway:          params.Gateway,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// RegisterCustomer creates a customer account with an email/password credential.
func (srv *userService) RegisterCustomer(ctx context.Context, input *usecase.RegisterCustomerInput) (*usecase.RegisterOutput, error) {
	user := &entity.User{
		Name:  input.Name,
		Email: input.Email,
		CustomerProfile: &entity.CustomerProfile{
			DefaultPhone: input.Phone,
		},
	}

	return srv.register(ctx, user, input.Email, input.Password)
}

// RegisterProvider creates a provider account. The payout account stays
// unonboarded until OnboardProvider runs; the provider can accept work but
// settlement parks payouts until onboarding finishes.
func (srv *userService) RegisterProvider(ctx context.Context, input *usecase.RegisterProviderInput) (*usecase.RegisterOutput, error) {
	user := &entity.User{
		Name:            input.Name,
		Email:           input.Email,
		ProviderProfile: &entity.ProviderProfile{},
	}

	return srv.register(ctx, user, input.Email, input.Password)
}

func (srv *userService) register(ctx context.Context, user *entity.User, email, password string) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if email == "" || password == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "email and password are required")
	}

	hashedPassword, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash password during registration")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		credentialRepo := repoFactory.CredentialRepo()

		_, findErr := credentialRepo.FindByEmail(ctx, email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrCredentialNotFound) {
			return errors.Wrap(findErr, "failed to check existing credential")
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		credential := &entity.Credential{
			UserID:       user.ID,
			Email:        email,
			PasswordHash: hashedPassword,
		}
		if err := credentialRepo.CreateCredential(ctx, credential); err != nil {
			return errors.Wrap(err, "failed to create credential during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", user.ID))

	return &usecase.RegisterOutput{User: user}, nil
}

// Login verifies the credential and issues an access/refresh token pair.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	credential, err := srv.credentialRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find credential")
	}

	// bcrypt is CPU-bound; checked outside any transaction.
	if !srv.hasher.Check(input.Password, credential.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	user, err := srv.userRepo.FindByID(ctx, credential.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for login")
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	newRefreshToken := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user,
	}, nil
}

// RefreshToken issues a new access token. The refresh token itself is not
// rotated; it stays valid until expiry or logout.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for token refresh")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.Roles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout ends the session backing the presented refresh token.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if _, err := srv.tokenService.ValidateToken(input.RefreshToken); err != nil {
		// An invalid token is still deleted by hash if it exists.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

// GetProfile returns the caller's account with its profiles.
func (srv *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// OnboardProvider provisions a gateway payout account for the provider and
// returns the onboarding link. The account reference is stored immediately;
// the onboarded flag flips once the gateway confirms the destination works.
func (srv *userService) OnboardProvider(ctx context.Context, userID uuid.UUID) (*usecase.OnboardProviderOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "onboarding failed")
		}

		return nil, errors.Wrap(err, "failed to load provider for onboarding")
	}
	if user.ProviderProfile == nil {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "only providers can onboard a payout account")
	}

	link, err := srv.gateway.CreateAccountLink(ctx, user.Email)
	if err != nil {
		srv.log(ctx).Error("Failed to create payout account link", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create payout account link")
	}

	if err := srv.userRepo.SetPayoutAccount(ctx, userID, link.AccountRef, true); err != nil {
		return nil, errors.Wrap(err, "failed to store payout account reference")
	}

	srv.log(ctx).Info("Provider onboarding link issued", slog.Any("userID", userID), slog.String("accountRef", link.AccountRef))

	return &usecase.OnboardProviderOutput{
		OnboardingURL: link.URL,
		AccountRef:    link.AccountRef,
	}, nil
}
