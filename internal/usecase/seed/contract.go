package seed

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/index"
)

// Writer upserts records into the product index.
type Writer interface {
	Upsert(ctx context.Context, records []index.Record) error
}
