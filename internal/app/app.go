// Package app wires the embedding registry, cache store, index builder and
// searcher together from a Config.
package app

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/config"
	"github.com/dshills/semfind/internal/embedder"
	"github.com/dshills/semfind/internal/indexer"
	"github.com/dshills/semfind/internal/searcher"
)

// App holds the long-lived components shared by every request. One
// registry feeds both the builder and the searcher so queries and lines
// are embedded by the same loaded model.
type App struct {
	Config   *config.Config
	Registry *embedder.Registry
	Store    cache.Store
	Builder  *indexer.Builder
	Searcher *searcher.Searcher
	Logger   *log.Logger
}

// New validates cfg and constructs the components. A nil logger discards
// diagnostics.
func New(cfg *config.Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	store, err := cache.New(cache.Options{
		Backend: cfg.CacheBackend,
		Dir:     cfg.CacheDir,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	var vectors *embedder.Cache
	if cfg.EmbedCacheSize > 0 {
		vectors = embedder.NewCache(cfg.EmbedCacheSize)
	}
	registry := embedder.NewRegistry(embedder.NewFactory(cfg.Embedder), vectors)

	builder := indexer.New(store, registry, &indexer.Config{
		Workers: cfg.Workers,
		Logger:  logger,
	})

	return &App{
		Config:   cfg,
		Registry: registry,
		Store:    store,
		Builder:  builder,
		Searcher: searcher.NewSearcher(builder, registry, logger),
		Logger:   logger,
	}, nil
}

// Close releases the loaded models and the cache store
func (a *App) Close() error {
	return errors.Join(a.Registry.Close(), a.Store.Close())
}
