package db

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/02loveslollipop/guardian-views/internal/logging"
	"github.com/02loveslollipop/guardian-views/internal/metrics"
	"github.com/02loveslollipop/guardian-views/internal/models"
)

// Warehouse is the read side used by the HTTP layer.
type Warehouse interface {
	FetchData(ctx context.Context, table string) (models.TableData, error)
	FetchTableNames(ctx context.Context) ([]string, error)
}

var (
	_ Warehouse = (*Store)(nil)
	_ Warehouse = (*BreakerStore)(nil)
)

// BreakerSettings tunes the warehouse circuit breaker.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
}

// BreakerStore guards a Warehouse with a circuit breaker. Missing tables and
// cancelled requests do not count as failures.
type BreakerStore struct {
	next Warehouse
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Warehouse, s BreakerSettings) *BreakerStore {
	if s.Name == "" {
		s.Name = "warehouse"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= s.MaxFailures
			if trip {
				logging.Warn().Uint32("failures", counts.ConsecutiveFailures).Str("breaker", s.Name).Msg("opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrTableNotFound) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &BreakerStore{next: next, cb: cb, name: s.Name}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// State reports the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	}
	return result, err
}

// FetchData delegates to the wrapped store.
func (b *BreakerStore) FetchData(ctx context.Context, table string) (models.TableData, error) {
	result, err := b.execute(func() (any, error) {
		return b.next.FetchData(ctx, table)
	})
	if err != nil {
		return models.TableData{}, err
	}
	data, _ := result.(models.TableData)
	return data, nil
}

// FetchTableNames delegates to the wrapped store.
func (b *BreakerStore) FetchTableNames(ctx context.Context) ([]string, error) {
	result, err := b.execute(func() (any, error) {
		return b.next.FetchTableNames(ctx)
	})
	if err != nil {
		return nil, err
	}
	names, _ := result.([]string)
	return names, nil
}
