package embedder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory constructs the embedder for a model name
type Factory func(model string) (Embedder, error)

// Registry loads each model once and reuses it for its whole lifetime.
// Create one per process and pass it to everything that embeds text.
type Registry struct {
	factory Factory
	cache   *Cache

	mu     sync.Mutex
	models map[string]Embedder
}

// NewRegistry creates a registry. A nil cache disables in-memory reuse of
// vectors across calls.
func NewRegistry(factory Factory, cache *Cache) *Registry {
	return &Registry{
		factory: factory,
		cache:   cache,
		models:  make(map[string]Embedder),
	}
}

// Get returns the embedder for model, loading it on first use
func (r *Registry) Get(model string) (Embedder, error) {
	if model == "" {
		return nil, fmt.Errorf("%w: empty model name", ErrUnsupportedModel)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if emb, ok := r.models[model]; ok {
		return emb, nil
	}

	emb, err := r.factory(model)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", model, err)
	}
	r.models[model] = emb
	return emb, nil
}

// Embed returns one raw (unnormalized) vector per text, in input order
func (r *Registry) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	emb, err := r.Get(model)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	missing := make([]int, 0, len(texts))
	for i, text := range texts {
		if r.cache != nil {
			if vec, ok := r.cache.Get(model, text); ok {
				out[i] = vec
				continue
			}
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		batch := make([]string, len(missing))
		for j, i := range missing {
			batch[j] = texts[i]
		}

		vectors, err := emb.Embed(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: %s returned %d vectors for %d texts",
				ErrProviderFailed, model, len(vectors), len(batch))
		}

		for j, i := range missing {
			out[i] = vectors[j]
			if r.cache != nil {
				r.cache.Set(model, texts[i], vectors[j])
			}
		}
	}

	if err := checkDimensions(out); err != nil {
		return nil, fmt.Errorf("%s: %w", model, err)
	}
	return out, nil
}

// EmbedOne embeds a single text
func (r *Registry) EmbedOne(ctx context.Context, model, text string) ([]float32, error) {
	vectors, err := r.Embed(ctx, model, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Loaded returns the names of the models loaded so far, sorted
func (r *Registry) Loaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every loaded embedder
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, emb := range r.models {
		if err := emb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(r.models, name)
	}
	return errors.Join(errs...)
}

func checkDimensions(rows [][]float32) error {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	if dim == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	for i, row := range rows {
		if len(row) != dim {
			return fmt.Errorf("%w: row %d has %d, want %d", ErrDimensionMismatch, i, len(row), dim)
		}
	}
	return nil
}
