package db

import "github.com/kailas-cloud/storefront/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
	// Distance is the metric the vector field was indexed with; it selects
	// how __vector_score is turned into a similarity score.
	Distance  DistanceMetric
	RawScores bool // return __vector_score as-is
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
