package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/metrics"
)

// BreakerConfig tunes the circuit breaker around an index backend.
type BreakerConfig struct {
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenMaxCalls uint32
}

// DefaultBreakerConfig returns the settings used when config leaves them unset.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MinRequests:      10,
		FailureRatio:     0.5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxCalls: 2,
	}
}

func (c BreakerConfig) normalize() BreakerConfig {
	def := DefaultBreakerConfig()
	if c.MinRequests == 0 {
		c.MinRequests = def.MinRequests
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = def.FailureRatio
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = def.OpenTimeout
	}
	if c.HalfOpenMaxCalls == 0 {
		c.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return c
}

// Breaker fails fast while the backend keeps failing. It never retries.
// Ping bypasses the breaker so health checks see the real backend state.
type Breaker struct {
	inner   Index
	backend string
	cb      *gobreaker.CircuitBreaker[any]
}

// NewBreaker wraps inner with a circuit breaker named after the backend.
func NewBreaker(inner Index, backend string, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	cfg = cfg.normalize()

	settings := gobreaker.Settings{
		Name:        backend,
		MaxRequests: cfg.HalfOpenMaxCalls,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up says nothing about backend health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Index circuit breaker state change",
				zap.String("backend", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.IndexBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	return &Breaker{
		inner:   inner,
		backend: backend,
		cb:      gobreaker.NewCircuitBreaker[any](settings),
	}
}

// Query runs the query through the breaker.
func (b *Breaker) Query(ctx context.Context, q Query) ([]Match, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.Query(ctx, q)
	})
	if err != nil {
		return nil, b.wrap(err)
	}
	matches, _ := res.([]Match)
	return matches, nil
}

// Upsert runs the write through the breaker.
func (b *Breaker) Upsert(ctx context.Context, records []Record) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.inner.Upsert(ctx, records)
	})
	if err != nil {
		return b.wrap(err)
	}
	return nil
}

// Ping delegates directly to the backend.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx) //nolint:wrapcheck // transparent decorator
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) wrap(err error) error {
	if IsCircuitOpen(err) {
		return fmt.Errorf("index %s: %w", b.backend, err)
	}
	return err
}

// IsCircuitOpen reports whether err was produced by an open or saturated breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
