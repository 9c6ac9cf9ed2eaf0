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
	"golang.org/x/sync/errgroup"

	"github.com/vendorkut/vendorkut/internal/app"
	"github.com/vendorkut/vendorkut/internal/approval"
	"github.com/vendorkut/vendorkut/internal/auth"
	"github.com/vendorkut/vendorkut/internal/cart"
	"github.com/vendorkut/vendorkut/internal/catalog"
	"github.com/vendorkut/vendorkut/internal/identity"
	"github.com/vendorkut/vendorkut/internal/observability"
	"github.com/vendorkut/vendorkut/internal/order"
	"github.com/vendorkut/vendorkut/internal/platform/cache"
	"github.com/vendorkut/vendorkut/internal/platform/db"
	"github.com/vendorkut/vendorkut/internal/shared"
	"github.com/vendorkut/vendorkut/jobs"
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

	var (
		users     identity.Repository
		products  catalog.Repository
		orders    order.Repository
		carts     cart.Store
		decisions approval.Recorder
	)
	switch cfg.StorageDriver {
	case app.StoragePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		users = identity.NewPostgresStore(pool)
		products = catalog.NewPostgresStore(pool)
		orders = order.NewPostgresStore(pool)
		carts = cart.NewRedisStore(redisClient)
		decisions = approval.NewPostgresRecorder(pool)
	default:
		users = identity.NewMemoryStore()
		products = catalog.NewMemoryStore()
		orders = order.NewMemoryStore()
		carts = cart.NewMemoryStore()
		decisions = approval.NewMemoryRecorder()
	}

	identityService := identity.NewService(users)
	if cfg.AdminEmail != "" {
		if _, err := identityService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Error("bootstrap admin", slog.Any("error", err))
			os.Exit(1)
		}
	}

	queueClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	metrics := observability.NewMetrics()

	catalogService := catalog.NewService(products, users)
	approvalService := approval.NewService(users, products, decisions, jobs.NewNotifier(queueClient), logger)
	orderService := order.NewService(orders, carts)
	authService := auth.NewService(users)
	authMiddleware := auth.Middleware{Users: users, Logger: logger}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		SessionManager:  sessionManager,
		AuthHandler:     auth.NewHandler(logger, authService, sessionManager).WithLoginLimiter(app.LoginRateLimit()),
		AuthMiddleware:  authMiddleware,
		IdentityHandler: identity.NewHandler(logger, identityService),
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		CartHandler:     cart.NewHandler(logger, carts, catalogService),
		OrderHandler:    order.NewHandler(logger, orderService),
		ApprovalHandler: approval.NewHandler(logger, approvalService),
		JobHandler:      jobs.NewHandler(inspector, logger),
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
