// Package main is the entry point for the travel planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/travel-planner/internal/auth"
	"github.com/pkordes/travel-planner/internal/config"
	"github.com/pkordes/travel-planner/internal/handler"
	"github.com/pkordes/travel-planner/internal/logging"
	"github.com/pkordes/travel-planner/internal/observability"
	"github.com/pkordes/travel-planner/internal/repo"
	"github.com/pkordes/travel-planner/internal/service"
	"github.com/pkordes/travel-planner/migrations"
)

// shutdownTimeout is how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 15 * time.Second

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("database connection established")

	if cfg.MigrateOnStart {
		sqlDB := stdlib.OpenDBFromPool(pool)
		err := migrations.Up(ctx, sqlDB, logger)
		_ = sqlDB.Close()
		if err != nil {
			return err
		}
	}

	// --- Auth -------------------------------------------------------------
	var revoker auth.Revoker = auth.NopRevoker{}
	if cfg.RedisAddr != "" {
		rr, err := auth.NewRedisRevoker(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rr.Close()
		revoker = rr
		logger.Info("token revocation enabled", "redis", cfg.RedisAddr)
	} else {
		logger.Warn("REDIS_ADDR not set; logout will not revoke tokens")
	}
	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL, revoker)
	if err != nil {
		return err
	}

	// --- Services ---------------------------------------------------------
	metrics := observability.NewMetrics()
	writer := service.NewWriter(service.RetryPolicy{
		Attempts: cfg.WriteRetryAttempts,
		Delay:    cfg.WriteRetryDelay,
	}, logger, metrics)

	users := repo.NewUserRepo(pool)
	catalog := service.Catalog{
		Attractions: repo.NewAttractionRepo(pool),
		Restaurants: repo.NewRestaurantRepo(pool),
		Activities:  repo.NewActivityRepo(pool),
	}

	router, err := handler.NewRouter(handler.Deps{
		Trips:        service.NewTripService(repo.NewTripRepo(pool), users, catalog, writer),
		Attractions:  service.NewAttractionService(catalog.Attractions, users, writer),
		Restaurants:  service.NewRestaurantService(catalog.Restaurants, users, writer),
		Activities:   service.NewActivityService(catalog.Activities, users, writer),
		Users:        service.NewUserService(users, writer),
		Auth:         service.NewAuthService(users, tokens, writer),
		Verifier:     tokens,
		DB:           pool,
		Metrics:      metrics,
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
	if err != nil {
		return err
	}

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Graceful shutdown: wait for a signal (or a listener failure), then
		// give in-flight requests shutdownTimeout to complete.
		<-gctx.Done()
		logger.Info("shutting down server")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
