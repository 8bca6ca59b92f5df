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

	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/access"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/app"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/audit"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/members"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/observability"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/cache"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/platform/db"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/programs"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/tenants"
	"github.com/arosadoclud/Sotware-iglesias-sub002/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()

	tenantsRepo := tenants.NewRepository(pool)
	membersRepo := members.NewRepository(pool)
	programsRepo := programs.NewRepository(pool)
	usersRepo := users.NewRepository(pool)

	guard := access.NewGuard(
		tenantsRepo,
		access.NewRedisStore(redisClient),
		cfg.TenantCacheTTL,
		cfg.StoreTimeout,
		logger,
	)
	engine := access.NewEngine(access.DefaultMatrix(), access.DefaultHierarchy(), logger, cfg.IsProduction())
	quota := access.NewEnforcer(access.DefaultLimits(), map[access.Resource]access.Counter{
		access.ResourcePersons:  membersRepo,
		access.ResourcePrograms: programsRepo,
	}, cfg.StoreTimeout)

	usersService := users.NewService(usersRepo)
	trail := audit.NewTrail(pool, logger)

	accessMw := access.Middleware{
		Resolver: usersService,
		Guard:    guard,
		Engine:   engine,
		Quota:    quota,
		Audit:    trail,
		Metrics:  metrics,
		Logger:   logger,
	}

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Access:          accessMw,
		TenantsHandler:  tenants.NewHandler(logger, tenants.NewService(tenantsRepo, guard, logger)),
		MembersHandler:  members.NewHandler(logger, members.NewService(membersRepo)),
		ProgramsHandler: programs.NewHandler(logger, programs.NewService(programsRepo)),
		UsersHandler:    users.NewHandler(logger, usersService),
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
