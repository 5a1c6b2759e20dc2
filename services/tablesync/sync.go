package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/models"
	"github.com/02loveslollipop/guardian-views/services/api/db"
)

type tableLister interface {
	FetchTableNames(ctx context.Context) ([]string, error)
}

type configRegistry interface {
	FetchConfig(ctx context.Context) (map[string]models.ViewConfig, error)
	AddNewTables(ctx context.Context, tables []string) error
}

// syncResult summarizes one run.
type syncResult struct {
	Warehouse  int
	Configured int
	Pending    []string
}

// pendingTables returns the warehouse tables without a config row, sorted.
func pendingTables(names []string, cfgs map[string]models.ViewConfig) []string {
	pending := db.Unconfigured(names, cfgs)
	sort.Strings(pending)
	return pending
}

func syncTables(ctx context.Context, tables tableLister, registry configRegistry, dryRun bool) (syncResult, error) {
	names, err := tables.FetchTableNames(ctx)
	if err != nil {
		return syncResult{}, fmt.Errorf("list warehouse tables: %w", err)
	}

	cfgs, err := registry.FetchConfig(ctx)
	if err != nil {
		return syncResult{}, fmt.Errorf("read config table: %w", err)
	}

	res := syncResult{
		Warehouse:  len(names),
		Configured: len(cfgs),
		Pending:    pendingTables(names, cfgs),
	}
	logging.Info().Int("warehouse", res.Warehouse).Int("configured", res.Configured).Int("pending", len(res.Pending)).Msg("table inventory")

	if len(res.Pending) == 0 {
		return res, nil
	}

	if dryRun {
		for _, name := range res.Pending {
			logging.Info().Str("table", name).Msg("dry-run: would register table")
		}
		return res, nil
	}

	if err := registry.AddNewTables(ctx, res.Pending); err != nil {
		return res, fmt.Errorf("register tables: %w", err)
	}
	return res, nil
}
