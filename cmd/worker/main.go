package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/app"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/audit"
	jobmetrics "github.com/arosadoclud/Sotware-iglesias-sub002/internal/jobs"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/cache"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/db"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/tenants"
	"github.com/arosadoclud/Sotware-iglesias-sub002/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tenantsRepo := tenants.NewRepository(pool)
	guard := access.NewGuard(
		tenantsRepo,
		access.NewRedisStore(redisClient),
		cfg.TenantCacheTTL,
		cfg.StoreTimeout,
		logger,
	)
	trail := audit.NewTrail(pool, logger)

	jobMetrics := jobmetrics.NewMetrics(nil)
	warmupJob := jobs.NewTenantWarmupJob(guard, tenantsRepo, logger, jobMetrics)
	sweepJob := jobs.NewAuditSweepJob(trail, cfg.AuditRetention, logger, jobMetrics)

	warmupTask, err := jobs.NewTenantWarmupTask(500)
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}
	sweepTask, err := jobs.NewAuditSweepTask()
	if err != nil {
		logger.Error("build sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTenantWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskAuditSweep, Handler: sweepJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/4 * * * *", Task: warmupTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
			{Spec: "30 3 * * *", Task: sweepTask, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
