package db

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/metrics"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

const configTable = "config"

const createConfigSQL = `
    CREATE TABLE IF NOT EXISTS config (
        table_name TEXT PRIMARY KEY,
        views_config TEXT
    )
`

// ConfigStore persists per-table view configurations as JSON blobs.
type ConfigStore struct {
	pool *pgxpool.Pool
}

// NewConfigStore connects to the config database.
func NewConfigStore(ctx context.Context, databaseURL string) (*ConfigStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{pool: pool}, nil
}

// NewConfigStoreFromPool wraps an existing pool.
func NewConfigStoreFromPool(pool *pgxpool.Pool) *ConfigStore {
	return &ConfigStore{pool: pool}
}

// Close releases the pool resources.
func (s *ConfigStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FetchConfig creates the config table when missing and returns every stored
// configuration keyed by table name. Blobs that fail to decode are skipped.
func (s *ConfigStore) FetchConfig(ctx context.Context) (cfg map[string]models.ViewConfig, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("fetch_config", start, err) }()

	if _, err := s.pool.Exec(ctx, createConfigSQL); err != nil {
		return nil, fmt.Errorf("create config table: %w", err)
	}

	rows, err := s.pool.Query(ctx, `SELECT table_name, COALESCE(views_config, '') FROM config`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cfg = make(map[string]models.ViewConfig)
	for rows.Next() {
		var table, blob string
		if err := rows.Scan(&table, &blob); err != nil {
			return nil, err
		}
		vc, err := models.ParseViewConfig(blob)
		if err != nil {
			metrics.ConfigParseErrors.Inc()
			logging.Ctx(ctx).Warn().Err(err).Str("table", table).Msg("skipping unreadable view config")
			continue
		}
		cfg[table] = vc
	}
	return cfg, rows.Err()
}

// UpdateConfig replaces the stored configuration of table.
func (s *ConfigStore) UpdateConfig(ctx context.Context, table string, vc models.ViewConfig) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("update_config", start, err) }()

	blob, err := json.Marshal(vc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = s.pool.Exec(ctx, `UPDATE config SET views_config = $1 WHERE table_name = $2`, string(blob), table)
	return err
}

// AddNewTable registers table with an empty configuration.
func (s *ConfigStore) AddNewTable(ctx context.Context, table string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("add_table", start, err) }()

	_, err = s.pool.Exec(ctx, `INSERT INTO config (table_name, views_config) VALUES ($1, '{}')`, table)
	return err
}

const insertTableSQL = `
    INSERT INTO config (table_name, views_config)
    VALUES ($1, '{}')
    ON CONFLICT (table_name) DO NOTHING
`

// AddNewTables registers several tables in one batch. Tables that already
// have a row are left untouched.
func (s *ConfigStore) AddNewTables(ctx context.Context, tables []string) (err error) {
	if len(tables) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.ObserveStore("add_tables", start, err) }()

	if _, err := s.pool.Exec(ctx, createConfigSQL); err != nil {
		return fmt.Errorf("create config table: %w", err)
	}

	batch := &pgx.Batch{}
	for _, t := range tables {
		batch.Queue(insertTableSQL, t)
	}

	res := s.pool.SendBatch(ctx, batch)
	defer res.Close()

	for range tables {
		if _, err := res.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// RemoveTable deletes the configuration row of table.
func (s *ConfigStore) RemoveTable(ctx context.Context, table string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("remove_table", start, err) }()

	_, err = s.pool.Exec(ctx, `DELETE FROM config WHERE table_name = $1`, table)
	return err
}
