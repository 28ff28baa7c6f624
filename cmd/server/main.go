package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edocportal/portal-api/internal/api"
	"github.com/edocportal/portal-api/internal/core/service"
	"github.com/edocportal/portal-api/internal/infrastructure/config"
	"github.com/edocportal/portal-api/internal/infrastructure/db/postgres"
	redisinfra "github.com/edocportal/portal-api/internal/infrastructure/db/redis"
	"github.com/edocportal/portal-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Seed the bootstrap admin account so the admin portal is reachable on a
	// fresh database. Idempotent across restarts.
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		accountRepo := postgres.NewAccountRepository(db)
		if err := service.EnsureAdmin(ctx, accountRepo, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password, log); err != nil {
			log.Fatal().Err(err).Msg("admin seeding failed")
		}
	} else {
		log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seeding")
	}

	e := api.NewRouter(db, rdb, cfg, logger.Component("api"))

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting portal API")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
