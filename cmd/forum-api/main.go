// Command forum-api serves the boards and posts HTTP API.
//
// @title                       Forum API
// @version                     1.0
// @description                 Boards and posts with bearer-token sessions.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/forum-system/internal/api"
	"github.com/99minutos/forum-system/internal/api/handler"
	"github.com/99minutos/forum-system/internal/api/metrics"
	"github.com/99minutos/forum-system/internal/core/service"
	"github.com/99minutos/forum-system/internal/infrastructure/config"
	redisinfra "github.com/99minutos/forum-system/internal/infrastructure/db/redis"
	"github.com/99minutos/forum-system/internal/infrastructure/queue"
	"github.com/99minutos/forum-system/internal/infrastructure/security"
	"github.com/99minutos/forum-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "forum-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "forum-api",
		Caller:  true,
	})

	// --- Infrastructure ---
	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		_ = rdb.Close()
		return err
	}

	codec, err := security.NewJWTCodec(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		_ = rdb.Close()
		_ = st.close(context.Background())
		return err
	}

	// --- Services ---
	authService := service.NewAuthService(
		st.accounts,
		redisinfra.NewSessionCache(rdb),
		codec,
		security.NewBcryptHasher(cfg.Auth.BcryptCost),
		cfg.Auth.AccessTokenTTL,
		logger.Named("auth"),
	)
	boardService := service.NewBoardService(st.boards, logger.Named("boards"))
	postService := service.NewPostService(st.posts, st.boards, logger.Named("posts"))
	reconciler := service.NewReconcileService(st.boards, logger.Named("reconcile"))

	// --- Background reconciliation ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Reconcile.Workers, reconciler, queue.Metrics{
		QueueDepth: metrics.ReconcileQueueDepth,
		Errors:     metrics.ReconcileErrorsTotal,
		Drift:      metrics.PostCountDriftTotal,
	}, logger.Named("dispatcher"))
	dispatcher.Start(workerCtx)
	go dispatcher.RunPeriodic(workerCtx, cfg.Reconcile.Interval, reconciler.BoardIDs)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		Log:          logger.Named("http"),
		AuthService:  authService,
		BoardService: boardService,
		PostService:  postService,
		Readiness: map[string]handler.Pinger{
			"redis":  redisinfra.NewPinger(rdb),
			st.name: st.pinger,
		},
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Registerer:     prometheus.DefaultRegisterer,
		Gatherer:       prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", st.name).Msg("HTTP server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server error")
		stopWorkers()
		shutdownDeps(cfg, log, st, rdb.Close)
		return err
	}

	// Shutdown in reverse order of startup.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	log.Info().Msg("shutting down HTTP server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, fmt.Errorf("http shutdown: %w", err))
	}
	stopWorkers()
	if err := shutdownDeps(cfg, log, st, rdb.Close); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}

	if shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("shutdown error")
		return shutdownErr
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

func shutdownDeps(cfg *config.Config, log zerolog.Logger, st *store, closeRedis func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	var errs error
	log.Info().Str("store", st.name).Msg("closing store")
	if err := st.close(ctx); err != nil {
		errs = errors.Join(errs, fmt.Errorf("%s close: %w", st.name, err))
	}
	log.Info().Msg("closing redis")
	if err := closeRedis(); err != nil {
		errs = errors.Join(errs, fmt.Errorf("redis close: %w", err))
	}
	return errs
}
