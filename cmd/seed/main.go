// Command seed loads a generated product catalog into the configured index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/storefront/internal/backend"
	"github.com/kailas-cloud/storefront/internal/config"
	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/usecase/seed"
	"github.com/kailas-cloud/storefront/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg := config.MustLoad(env)

	count := flag.Int("count", cfg.Seed.Count, "number of products to generate")
	randomSeed := flag.Uint64("seed", cfg.Seed.RandomSeed, "random seed; the same seed yields the same catalog")
	batchSize := flag.Int("batch", cfg.Seed.BatchSize, "records per upsert")
	reset := flag.Bool("reset", false, "drop and recreate the search index first (valkey)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open product index", zap.Error(err))
	}
	defer idx.Close()

	if *reset {
		if err := idx.DropSchema(ctx); err != nil {
			logger.Fatal("Failed to drop product index", zap.Error(err))
		}
	}

	if _, err := idx.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to prepare product index", zap.Error(err))
	}

	n, err := seed.New(idx.Index, logger).Run(ctx, seed.Options{
		Count:      *count,
		RandomSeed: *randomSeed,
		BatchSize:  *batchSize,
	})
	if err != nil {
		logger.Fatal("Seeding failed", zap.Int("written", n), zap.Error(err))
	}
}
