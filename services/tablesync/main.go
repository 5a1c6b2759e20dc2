package main

import (
	"context"
	"os"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/services/api/db"
	"github.com/02loveslollipop/guardian-views/services/tablesync/internal/config"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("tablesync failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	configs, err := db.NewConfigStore(ctx, cfg.ConfigDatabaseURL)
	if err != nil {
		return err
	}
	defer configs.Close()

	res, err := syncTables(ctx, store, configs, cfg.DryRun)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		logging.Info().Int("tables", len(res.Pending)).Msg("dry-run: no tables registered")
		return nil
	}
	logging.Info().Strs("tables", res.Pending).Msg("registered tables")
	return nil
}
