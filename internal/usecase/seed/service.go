// Package seed fills the product index with a generated catalog.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/index"
)

// DefaultBatchSize is the number of records per upsert call.
const DefaultBatchSize = 100

// Options controls a seeding run.
type Options struct {
	Count      int
	RandomSeed uint64
	BatchSize  int
}

// Service writes generated products to the index.
type Service struct {
	writer Writer
	logger *zap.Logger
}

// New creates a seed service.
func New(writer Writer, logger *zap.Logger) *Service {
	return &Service{writer: writer, logger: logger}
}

// Run generates the catalog and upserts it in batches. Returns the number
// of products written before any error.
func (s *Service) Run(ctx context.Context, opts Options) (int, error) {
	if opts.Count <= 0 {
		return 0, errors.New("count must be positive")
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	catalog := Catalog(opts.Count, opts.RandomSeed)
	written := 0

	for start := 0; start < len(catalog); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(catalog))

		if err := s.writer.Upsert(ctx, toRecords(catalog[start:end])); err != nil {
			return written, fmt.Errorf("upsert batch at %d: %w", start, err)
		}
		written = end

		s.logger.Debug("Seeded batch",
			zap.Int("from", start),
			zap.Int("to", end),
		)
	}

	s.logger.Info("Catalog seeded",
		zap.Int("products", written),
		zap.Uint64("random_seed", opts.RandomSeed),
	)
	return written, nil
}

func toRecords(products []product.Product) []index.Record {
	records := make([]index.Record, len(products))
	for i, p := range products {
		records[i] = index.Record{ID: p.ID, Vector: Vector(p), Metadata: p}
	}
	return records
}
