package index

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/metrics"
)

// Instrumented wraps an Index with Prometheus metrics and logging.
type Instrumented struct {
	inner   Index
	backend string
	logger  *zap.Logger
}

// NewInstrumented wraps an index with observability.
func NewInstrumented(inner Index, backend string, logger *zap.Logger) *Instrumented {
	return &Instrumented{inner: inner, backend: backend, logger: logger}
}

// Query delegates and records duration, status and match count.
func (i *Instrumented) Query(ctx context.Context, q Query) ([]Match, error) {
	start := time.Now()
	matches, err := i.inner.Query(ctx, q)
	duration := i.observe("query", start, err)

	if err != nil {
		i.logger.Error("Index query failed",
			zap.String("backend", i.backend),
			zap.Duration("duration", duration),
			zap.String("filter", q.Filter.Render()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("query: %w", err)
	}

	metrics.IndexMatches.WithLabelValues(i.backend).Observe(float64(len(matches)))
	i.logger.Debug("Index query completed",
		zap.String("backend", i.backend),
		zap.Duration("duration", duration),
		zap.Int("top_k", q.TopK),
		zap.Int("matches", len(matches)),
	)
	return matches, nil
}

// Upsert delegates and records duration and status.
func (i *Instrumented) Upsert(ctx context.Context, records []Record) error {
	start := time.Now()
	err := i.inner.Upsert(ctx, records)
	duration := i.observe("upsert", start, err)

	if err != nil {
		i.logger.Error("Index upsert failed",
			zap.String("backend", i.backend),
			zap.Int("records", len(records)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("upsert: %w", err)
	}

	i.logger.Debug("Index upsert completed",
		zap.String("backend", i.backend),
		zap.Int("records", len(records)),
		zap.Duration("duration", duration),
	)
	return nil
}

// Ping delegates and records duration and status.
func (i *Instrumented) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.inner.Ping(ctx)
	i.observe("ping", start, err)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (i *Instrumented) observe(op string, start time.Time, err error) time.Duration {
	duration := time.Since(start)
	metrics.IndexRequestDuration.WithLabelValues(i.backend, op).Observe(duration.Seconds())
	metrics.IndexRequestsTotal.WithLabelValues(i.backend, op, status(err)).Inc()
	return duration
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsCircuitOpen(err):
		return "circuit_open"
	default:
		if code, ok := HTTPStatus(err); ok {
			return strconv.Itoa(code)
		}
		return "error"
	}
}
