package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Its-Zach/grandline/pkg/types"
)

// BreakerConfig holds the configuration for the storage circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures required to trip
	// the circuit. Default: 3.
	MaxFailures uint32

	// Timeout is the duration the circuit stays open before transitioning
	// to half-open. Default: 30 seconds.
	Timeout time.Duration

	// HalfOpenMaxSuccesses is the number of consecutive successes required
	// in half-open state to close the circuit again. Default: 2.
	HalfOpenMaxSuccesses uint32

	// CallTimeout is the deadline applied to every store call. Default: 3
	// seconds. A call that exceeds it fails with ErrUnavailable; no retry
	// is attempted.
	CallTimeout time.Duration
}

// BreakerStore decorates a ReadingStore with a circuit breaker and a fixed
// per-call timeout. When the circuit is open or a call times out, methods
// return an error wrapping ErrUnavailable so callers can distinguish
// upstream failures from not-found and invalid-input conditions.
type BreakerStore struct {
	inner       ReadingStore
	breaker     *gobreaker.CircuitBreaker
	callTimeout time.Duration
}

// NewBreakerStore wraps inner with a circuit breaker. Zero-value config
// fields are replaced with defaults.
func NewBreakerStore(inner ReadingStore, cfg BreakerConfig) *BreakerStore {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMaxSuccesses == 0 {
		cfg.HalfOpenMaxSuccesses = 2
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = 3 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "ReadingStore",
		MaxRequests: cfg.HalfOpenMaxSuccesses,
		Interval:    0, // Don't clear counts periodically
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// Not-found and invalid input are domain outcomes, not
			// storage faults; they must not trip the circuit.
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput)
		},
	}

	return &BreakerStore{
		inner:       inner,
		breaker:     gobreaker.NewCircuitBreaker(settings),
		callTimeout: cfg.CallTimeout,
	}
}

// execute runs fn through the breaker with the per-call timeout applied.
func (s *BreakerStore) execute(ctx context.Context, fn func(ctx context.Context) (any, error)) (any, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: call timed out after %s", ErrUnavailable, s.callTimeout)
		}
		return nil, err
	}
	return result, nil
}

func (s *BreakerStore) InsertReading(ctx context.Context, reading *types.Reading) (int64, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.InsertReading(ctx, reading)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (s *BreakerStore) GetReading(ctx context.Context, id int64) (*types.Reading, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.GetReading(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Reading), nil
}

func (s *BreakerStore) GetLatestReading(ctx context.Context) (*types.Reading, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.GetLatestReading(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*types.Reading), nil
}

func (s *BreakerStore) ListReadings(ctx context.Context, opts ListOptions) (*PaginatedResult[types.Reading], error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.ListReadings(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return result.(*PaginatedResult[types.Reading]), nil
}

func (s *BreakerStore) UpdateReading(ctx context.Context, id, islandID, characterID int64) (int64, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.UpdateReading(ctx, id, islandID, characterID)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (s *BreakerStore) DeleteReading(ctx context.Context, id int64) (int64, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.DeleteReading(ctx, id)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (s *BreakerStore) CountReadings(ctx context.Context) (int, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.CountReadings(ctx)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

func (s *BreakerStore) ListIslands(ctx context.Context) ([]types.NamedEntity, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.ListIslands(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.NamedEntity), nil
}

func (s *BreakerStore) ListCharacters(ctx context.Context) ([]types.NamedEntity, error) {
	result, err := s.execute(ctx, func(ctx context.Context) (any, error) {
		return s.inner.ListCharacters(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.NamedEntity), nil
}

// SeedReference forwards to the inner store when it supports seeding.
func (s *BreakerStore) SeedReference(ctx context.Context, islands, characters []types.NamedEntity) error {
	seeder, ok := s.inner.(ReferenceSeeder)
	if !ok {
		return fmt.Errorf("seed: store %T does not support reference seeding", s.inner)
	}
	return seeder.SeedReference(ctx, islands, characters)
}

// State returns the current breaker state ("closed", "open" or "half-open").
func (s *BreakerStore) State() string {
	switch s.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// GetDB exposes the inner store's database handle when it has one, so
// settings persistence keeps working through the breaker. Direct handle
// access bypasses the breaker; only startup and settings paths use it.
func (s *BreakerStore) GetDB() *sql.DB {
	if getter, ok := s.inner.(interface{ GetDB() *sql.DB }); ok {
		return getter.GetDB()
	}
	return nil
}

func (s *BreakerStore) Close() error {
	return s.inner.Close()
}
