package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ensemble-club/ensemble/internal/app"
	"github.com/ensemble-club/ensemble/internal/auth"
	"github.com/ensemble-club/ensemble/internal/authz"
	"github.com/ensemble-club/ensemble/internal/ledger"
	"github.com/ensemble-club/ensemble/internal/members"
	"github.com/ensemble-club/ensemble/internal/observability"
	"github.com/ensemble-club/ensemble/internal/shared"
	"github.com/ensemble-club/ensemble/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "ensemble_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	engine := authz.NewDefaultEngine()
	authzMiddleware := authz.Middleware{Engine: engine, Logger: logger}

	roster := members.NewService()
	if cfg.SeedRoster {
		if err := roster.SeedDefaults(ctx, cfg.SeedPassword); err != nil {
			logger.Error("seed roster", slog.Any("error", err))
			os.Exit(1)
		}
	}

	ledgerStore := ledger.NewStore()
	ledgerService := ledger.NewService(ledgerStore)

	authService := auth.NewService(roster)
	authHandler := auth.NewHandler(logger, authService, sessionManager)
	membersHandler := members.NewHandler(logger, roster, authzMiddleware)
	ledgerHandler := ledger.NewHandler(logger, ledgerService, authzMiddleware)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		AuthHandler:    authHandler,
		MembersHandler: membersHandler,
		LedgerHandler:  ledgerHandler,
		Metrics:        metrics,
	})

	scanJob := jobs.NewMaintenanceScanJob(ledgerService, logger)
	scanTask, err := jobs.NewMaintenanceScanTask(jobs.MaintenanceScanPayload{})
	if err != nil {
		logger.Error("build maintenance scan task", slog.Any("error", err))
		os.Exit(1)
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrent,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMaintenanceScan, Handler: scanJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.MaintenanceCron, Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run", slog.Any("error", err))
		os.Exit(1)
	}
}
