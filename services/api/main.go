package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/services/api/config"
	"github.com/02loveslollipop/guardian-views/services/api/db"
	httpserver "github.com/02loveslollipop/guardian-views/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("config error")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("warehouse connection error")
	}
	defer store.Close()

	configs, err := db.NewConfigStore(ctx, cfg.ConfigDatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("config database connection error")
	}
	defer configs.Close()

	warehouse := db.NewBreakerStore(store, db.BreakerSettings{
		Name:        "warehouse",
		MaxFailures: cfg.BreakerFailures,
		Timeout:     cfg.BreakerTimeout,
	})

	srv := httpserver.New(cfg, warehouse, configs)
	logging.Info().Str("addr", cfg.ListenAddr()).Msg("REST API listening")

	if err := srv.Run(ctx); err != nil {
		logging.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
