// Package backend assembles the product index from configuration:
// backend client, then circuit breaker, then metrics.
package backend

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/config"
	"github.com/kailas-cloud/storefront/internal/db/valkey"
	"github.com/kailas-cloud/storefront/internal/index"
	productrepo "github.com/kailas-cloud/storefront/internal/repository/product"
	"github.com/kailas-cloud/storefront/internal/transport/upstash"
)

// Backend is an opened product index.
type Backend struct {
	// Index is the decorated index all callers use.
	Index index.Index
	Name  string

	repo  *productrepo.Repo
	store *valkey.Store
}

// Open connects to the configured index backend. For valkey it waits until
// the server answers.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{Name: cfg.Index.Backend}

	var raw index.Index
	switch cfg.Index.Backend {
	case config.BackendUpstash:
		client, err := upstash.NewClient(upstash.Config{
			URL:       cfg.Index.Upstash.URL,
			Token:     cfg.Index.Upstash.Token,
			Timeout:   time.Duration(cfg.Index.Upstash.TimeoutSec) * time.Second,
			RateLimit: cfg.Index.Upstash.RateLimit,
			RateBurst: cfg.Index.Upstash.RateBurst,
		})
		if err != nil {
			return nil, fmt.Errorf("create upstash client: %w", err)
		}
		raw = client

	case config.BackendValkey:
		store, err := valkey.NewStore(valkey.Config{
			Addrs:    cfg.Index.Valkey.Addrs,
			Username: cfg.Index.Valkey.Username,
			Password: cfg.Index.Valkey.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create valkey store: %w", err)
		}
		timeout := time.Duration(cfg.Index.Valkey.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("valkey not ready: %w", err)
		}
		b.store = store
		b.repo = productrepo.New(store, cfg.Index.Valkey.KeyPrefix)
		raw = b.repo

	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}

	b.Index = decorate(raw, b.Name, cfg.Breaker, logger)
	return b, nil
}

func decorate(raw index.Index, name string, cfg config.BreakerConfig, logger *zap.Logger) index.Index {
	idx := raw
	if cfg.IsEnabled() {
		idx = index.NewBreaker(idx, name, index.BreakerConfig{
			MinRequests:      cfg.MinRequests,
			FailureRatio:     cfg.FailureRatio,
			OpenTimeout:      time.Duration(cfg.OpenTimeoutSec) * time.Second,
			HalfOpenMaxCalls: cfg.HalfOpenMaxCalls,
		}, logger)
	}
	return index.NewInstrumented(idx, name, logger)
}

// EnsureSchema creates the search index when the backend needs one.
// Upstash indexes are provisioned out of band, so this is a no-op there.
func (b *Backend) EnsureSchema(ctx context.Context) (created bool, err error) {
	if b.repo == nil {
		return false, nil
	}
	created, err = b.repo.EnsureIndex(ctx)
	if err != nil {
		return false, fmt.Errorf("ensure product index: %w", err)
	}
	return created, nil
}

// DropSchema removes the search index, keeping stored products. A no-op
// for upstash.
func (b *Backend) DropSchema(ctx context.Context) error {
	if b.repo == nil {
		return nil
	}
	if err := b.repo.DropIndex(ctx); err != nil {
		return fmt.Errorf("drop product index: %w", err)
	}
	return nil
}

// Close releases backend connections.
func (b *Backend) Close() {
	if b.store != nil {
		b.store.Close()
	}
}
