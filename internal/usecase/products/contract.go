package products

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/index"
)

// Index runs similarity queries against the product index.
type Index interface {
	Query(ctx context.Context, q index.Query) ([]index.Match, error)
}
