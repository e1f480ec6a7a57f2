// Package index defines the vector index contract the product query runs
// against, plus decorators that add resilience and observability to any
// backend.
package index

import (
	"context"

	"github.com/kailas-cloud/storefront/internal/domain/product"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// Query is a single similarity query.
type Query struct {
	TopK            int
	Vector          []float32
	IncludeMetadata bool
	// Filter is sent only when non-empty.
	Filter filter.Expression
}

// Match is one hit, in the order the index ranked it.
type Match struct {
	ID       string          `json:"id"`
	Score    float64         `json:"score"`
	Metadata product.Product `json:"metadata"`
}

// Record is a product as written to the index.
type Record struct {
	ID       string
	Vector   []float32
	Metadata product.Product
}

// Index is the external vector index.
type Index interface {
	Query(ctx context.Context, q Query) ([]Match, error)
	Upsert(ctx context.Context, records []Record) error
	Ping(ctx context.Context) error
}
