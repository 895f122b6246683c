package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"evexpert-backend/internal/config"
	"evexpert-backend/internal/interfaces/router"
	"evexpert-backend/internal/pkg/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}
	logging.Setup(cfg.LogLevel, cfg.IsProduction())

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("Postgres: get DB")
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Postgres connection failed")
		}
		defer sqlDB.Close()
		log.Info().Msg("Postgres connected")
	} else {
		log.Warn().Msg("DATABASE_URL not set, garage routes are disabled")
	}
	if rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")
	} else {
		log.Warn().Msg("REDIS_URL not set, snapshot cache and request stats are disabled")
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("analysis_url", cfg.AnalysisURL).Msg("Server running")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}
