package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/02loveslollipop/guardian-views/internal/metrics"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

// ErrTableNotFound is returned when the requested warehouse table does not exist.
var ErrTableNotFound = errors.New("table does not exist")

const (
	columnsSuffix  = "__columns"
	metadataSuffix = "__metadata"
)

// Store wraps read access to the warehouse database.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// NewFromPool wraps an existing pool.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// FetchData reads the main table plus its optional __columns and __metadata
// companions. A missing main table yields ErrTableNotFound; a missing
// companion leaves the matching field nil.
func (s *Store) FetchData(ctx context.Context, table string) (data models.TableData, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("fetch_data", start, err) }()

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return models.TableData{}, err
	}
	if !exists {
		return models.TableData{}, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	data.MainData, err = s.fetchRows(ctx, table)
	if err != nil {
		return models.TableData{}, fmt.Errorf("fetch %s: %w", table, err)
	}
	metrics.RowsFetched.WithLabelValues(table).Add(float64(len(data.MainData)))

	columnsTable := table + columnsSuffix
	if ok, err := s.tableExists(ctx, columnsTable); err != nil {
		return models.TableData{}, err
	} else if ok {
		rows, err := s.fetchRows(ctx, columnsTable)
		if err != nil {
			return models.TableData{}, fmt.Errorf("fetch %s: %w", columnsTable, err)
		}
		data.ColumnsData = columnMappings(rows)
	}

	metadataTable := table + metadataSuffix
	if ok, err := s.tableExists(ctx, metadataTable); err != nil {
		return models.TableData{}, err
	} else if ok {
		rows, err := s.fetchRows(ctx, metadataTable)
		if err != nil {
			return models.TableData{}, fmt.Errorf("fetch %s: %w", metadataTable, err)
		}
		data.Metadata = alertsMetadata(rows)
	}

	return data, nil
}

func (s *Store) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, pgx.Identifier{table}.Sanitize()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return exists, nil
}

func (s *Store) fetchRows(ctx context.Context, table string) ([]models.Row, error) {
	rows, err := s.pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{table}.Sanitize())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]models.Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		var row models.Row
		for i, fd := range fields {
			row.Set(fd.Name, normalizeValue(values[i]))
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const listTablesSQL = `
    SELECT table_name
    FROM information_schema.tables
    WHERE table_schema = 'public'
    ORDER BY table_name
`

// FetchTableNames lists warehouse tables that can carry a view config.
func (s *Store) FetchTableNames(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStore("fetch_table_names", start, err) }()

	rows, err := s.pool.Query(ctx, listTablesSQL)
	if err != nil {
		return nil, err
	}
	names, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return FilterTableNames(names), nil
}
