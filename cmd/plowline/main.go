package main

import (
	"context"
	"log/slog"
	"os"

	"plowline/config"
	"plowline/internal/delivery"
	"plowline/internal/delivery/http"
	httpmiddleware "plowline/internal/delivery/http/middleware"
	"plowline/internal/delivery/http/router/handler"
	deliverymiddleware "plowline/internal/delivery/middleware"
	"plowline/internal/infra/auth"
	logs "plowline/internal/infra/log"
	"plowline/internal/infra/payment"
	"plowline/internal/infra/persistence/postgres"
	"plowline/internal/infra/pubsub"
	"plowline/internal/infra/push"
	"plowline/internal/infra/upload"
	"plowline/internal/infra/weather"
	"plowline/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewCredentialRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewAddressRepository,
			postgres.NewCartRepository,
			postgres.NewRequestRepository,
			postgres.NewNotificationRepository,
			postgres.NewPayoutRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			payment.New,
			weather.New,
			upload.New,
			push.NewPushSender,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewAddressService,
			impl.NewCartService,
			impl.NewRequestService,
			impl.NewSettlementService,
			impl.NewNotificationService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewAuthMiddleware,
			httpmiddleware.NewErrorMiddleware,
			deliverymiddleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewCartHandler,
			handler.NewAddressHandler,
			handler.NewRequestHandler,
			handler.NewNotificationHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
