// Package worker contains the background reconciler delivery. It re-drives
// interrupted completion migrations, retries unconfirmed payouts, and prunes
// expired refresh tokens on a fixed interval.
package worker

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"plowline/config"
	"plowline/internal/delivery"
	deliverymiddleware "plowline/internal/delivery/middleware"
	"plowline/internal/domain/lifecycle"
	"plowline/internal/domain/repository"
	"plowline/internal/usecase"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultSweepInterval = time.Minute
	defaultBatchSize     = 50
)

type reconciler struct {
	cfg        *config.Config
	logger     *slog.Logger
	server     *echo.Echo
	requests   repository.RequestRepository
	tokens     repository.RefreshTokenRepository
	settlement usecase.SettlementUsecase

	interval  time.Duration
	batchSize int
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// ReconcilerParams holds dependencies for the reconciler delivery.
type ReconcilerParams struct {
	fx.In

	Lc         fx.Lifecycle
	Cfg        *config.Config
	Logger     *slog.Logger
	Requests   repository.RequestRepository
	Tokens     repository.RefreshTokenRepository
	Settlement usecase.SettlementUsecase
}

// NewReconciler creates the background sweep delivery with its health server.
func NewReconciler(params ReconcilerParams) (delivery.Delivery, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())

	requestIDMiddleware := deliverymiddleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	interval := defaultSweepInterval
	batchSize := defaultBatchSize
	if params.Cfg.Reconciler != nil {
		if params.Cfg.Reconciler.Interval > 0 {
			interval = params.Cfg.Reconciler.Interval
		}
		if params.Cfg.Reconciler.BatchSize > 0 {
			batchSize = params.Cfg.Reconciler.BatchSize
		}
	}

	r := &reconciler{
		cfg:        params.Cfg,
		logger:     params.Logger,
		server:     e,
		requests:   params.Requests,
		tokens:     params.Tokens,
		settlement: params.Settlement,
		interval:   interval,
		batchSize:  batchSize,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: r.stop,
	})

	return r, nil
}

// Serve runs the sweep loop and the health server until shutdown.
func (r *reconciler) Serve(ctx context.Context) error {
	go r.runSweeps(ctx)

	port := 0
	if r.cfg.Reconciler != nil {
		port = r.cfg.Reconciler.Port
	}
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(port))
	r.logger.Info("Starting reconciler", slog.String("hostPort", hostPort), slog.Duration("interval", r.interval))
	if err := r.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (r *reconciler) runSweeps(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// Run one sweep immediately so a crash-looping deployment still makes
	// progress on interrupted migrations.
	r.sweep(ctx)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep runs one pass of every recovery task. Each task logs and continues on
// failure so one broken dependency never starves the others.
func (r *reconciler) sweep(ctx context.Context) {
	r.finishMigrations(ctx)
	r.retryPayouts(ctx)
	r.pruneTokens(ctx)
}

// finishMigrations retires active records whose completed copy already exists.
// A request in both stores means a Complete call crashed between the archive
// write and the active delete.
func (r *reconciler) finishMigrations(ctx context.Context) {
	ids, err := r.requests.FindMigrationStragglers(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("Failed to list migration stragglers", slog.Any("error", err))

		return
	}

	for _, id := range ids {
		if err := r.requests.DeleteActive(ctx, id); err != nil {
			r.logger.Error("Failed to retire migrated request",
				slog.String("request_id", id.String()),
				slog.Any("error", err),
			)

			continue
		}
		r.logger.Info("Retired migrated request", slog.String("request_id", id.String()))
	}
}

func (r *reconciler) retryPayouts(ctx context.Context) {
	retried, err := r.settlement.RetryPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("Failed to retry pending payouts", slog.Any("error", err))

		return
	}
	if retried > 0 {
		r.logger.Info("Retried pending payouts", slog.Int("count", retried))
	}
}

func (r *reconciler) pruneTokens(ctx context.Context) {
	if err := r.tokens.DeleteExpiredRefreshTokens(ctx); err != nil {
		r.logger.Error("Failed to prune expired refresh tokens", slog.Any("error", err))
	}
}

func (r *reconciler) stop(ctx context.Context) error {
	close(r.stopCh)

	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	select {
	case <-r.doneCh:
	case <-shutdownCtx.Done():
	}

	r.logger.Info("Shutting down reconciler")

	return errors.WithStack(r.server.Shutdown(shutdownCtx))
}
