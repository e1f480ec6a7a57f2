// Package product stores the catalog in Valkey hashes and serves it as an
// index.Index through an FT index with a FLAT/L2 vector field.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/index"
)

var _ index.Index = (*Repo)(nil)

// store is the consumer interface for the product repository (ISP).
type store interface {
	db.Pinger
	db.HashStore
	db.IndexManager
	db.Searcher
}

// Repo implements index.Index on top of a Valkey store.
type Repo struct {
	store  store
	prefix string
}

// New creates a product repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, keyPrefix string) *Repo {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: keyPrefix}
}

// IndexDefinition returns the FT schema products are indexed with.
func (r *Repo) IndexDefinition() *db.IndexDefinition {
	return db.NewIndex(indexName(r.prefix)).
		Prefix(productPrefix(r.prefix)).
		Tag(fieldColor).
		Tag(fieldSize).
		Numeric(fieldPrice).
		VectorFlat(fieldVector, VectorDim, db.DistanceL2).
		MustBuild()
}

// EnsureIndex creates the FT index unless it already exists.
// Reports whether it was created.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.store.IndexExists(ctx, indexName(r.prefix))
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	if exists {
		return false, nil
	}
	if err := r.store.CreateIndex(ctx, r.IndexDefinition()); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index: %w", err)
	}
	return true, nil
}

// DropIndex removes the FT index; product hashes stay in place.
func (r *Repo) DropIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, indexName(r.prefix)); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

// Query runs a filtered KNN search. Matches come back best-first.
func (r *Repo) Query(ctx context.Context, q index.Query) ([]index.Match, error) {
	returnFields := []string{fieldID}
	if q.IncludeMetadata {
		returnFields = metadataFields
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(r.prefix),
		Filters:      q.Filter,
		Vector:       q.Vector,
		K:            q.TopK,
		ReturnFields: returnFields,
		Distance:     db.DistanceL2,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return r.toMatches(sr, q.IncludeMetadata)
}

// Upsert writes every record as a hash in one pipelined round-trip.
func (r *Repo) Upsert(ctx context.Context, records []index.Record) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record %d: id is required", i)
		}
		if len(rec.Vector) != VectorDim {
			return fmt.Errorf("record %s: vector has %d dims, want %d", rec.ID, len(rec.Vector), VectorDim)
		}
		meta := rec.Metadata
		meta.ID = rec.ID
		items[i] = db.HashSetItem{
			Key:    productKey(r.prefix, rec.ID),
			Fields: toHash(meta, rec.Vector),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset products: %w", err)
	}
	return nil
}

// Ping checks the store connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx) //nolint:wrapcheck // transparent
}

func (r *Repo) toMatches(sr *db.SearchResult, withMetadata bool) ([]index.Match, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return []index.Match{}, nil
	}

	prefix := productPrefix(r.prefix)
	matches := make([]index.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		m := index.Match{
			ID:    strings.TrimPrefix(e.Key, prefix),
			Score: e.Score,
		}
		if withMetadata {
			p, err := fromHash(e.Fields)
			if err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.Key, err)
			}
			if p.ID == "" {
				p.ID = m.ID
			}
			m.Metadata = p
		}
		matches = append(matches, m)
	}
	return matches, nil
}
