// Package products answers storefront product queries: it validates the
// filter selection, turns it into one index query and returns the matches.
package products

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
	"github.com/kailas-cloud/storefront/internal/domain/search/selection"
	"github.com/kailas-cloud/storefront/internal/index"
	"github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/metrics"
)

// TopK is the number of products returned per query.
const TopK = 12

// DefaultQueryTimeout bounds the index call when none is configured.
const DefaultQueryTimeout = 5 * time.Second

// Query outcomes, used as the product_queries_total label.
const (
	outcomeOK       = "ok"
	outcomeInvalid  = "invalid"
	outcomeUpstream = "upstream_error"
)

// Service handles product queries.
type Service struct {
	idx     Index
	backend string
	timeout time.Duration
}

// New creates a product query service. backend names the index in errors
// and logs; a non-positive timeout selects DefaultQueryTimeout.
func New(idx Index, backend string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Service{idx: idx, backend: backend, timeout: timeout}
}

// Query validates the raw request body and runs it. A malformed payload
// yields a *domain.ValidationError and no index call.
func (s *Service) Query(ctx context.Context, raw []byte) ([]index.Match, error) {
	sel, err := selection.Parse(raw)
	if err != nil {
		metrics.ProductQueriesTotal.WithLabelValues(outcomeInvalid).Inc()
		logger.FromContext(ctx).Info("Rejected product query", zap.Error(err))
		return nil, err //nolint:wrapcheck // already a domain error
	}
	return s.Search(ctx, sel)
}

// Search runs an already validated selection: exactly one index query with
// the sort's ranking vector and the rendered filter. Matches are returned as
// the index ranked them.
func (s *Service) Search(ctx context.Context, sel selection.Selection) ([]index.Match, error) {
	expr := filter.Build(sel)

	q := index.Query{
		TopK:            TopK,
		Vector:          sel.Sort().Vector(),
		IncludeMetadata: true,
	}
	if !expr.IsEmpty() {
		q.Filter = expr
	}

	ctx = logger.With(ctx,
		zap.String("sort", string(sel.Sort())),
		zap.Stringer("filter", expr),
	)
	log := logger.FromContext(ctx)

	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	matches, err := s.idx.Query(qctx, q)
	if err != nil {
		metrics.ProductQueriesTotal.WithLabelValues(outcomeUpstream).Inc()
		log.Error("Product query failed",
			zap.String("backend", s.backend),
			zap.Duration("duration", time.Since(start)),
			zap.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
			zap.Error(err),
		)
		return nil, domain.NewUpstreamError(s.backend, err)
	}

	if matches == nil {
		matches = []index.Match{}
	}

	metrics.ProductQueriesTotal.WithLabelValues(outcomeOK).Inc()
	log.Debug("Product query completed",
		zap.Int("matches", len(matches)),
		zap.Duration("duration", time.Since(start)),
	)
	return matches, nil
}
