package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyInput        = errors.New("no texts to embed")
	ErrProviderFailed    = errors.New("embedding provider failed")
	ErrUnsupportedModel  = errors.New("unsupported model")
	ErrNoProviderEnabled = errors.New("no embedding provider configured")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Embedder maps texts to fixed-dimension vectors. Implementations must
// return exactly one row per input, in input order, and the same vector for
// the same text on every call.
type Embedder interface {
	// Embed generates one vector per text
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector length, or 0 if it is only known after the first call
	Dimension() int

	// Provider returns the backend name
	Provider() string

	// Model returns the model name
	Model() string

	// Close releases any resources held by the embedder
	Close() error
}

// Cache provides in-memory LRU caching of vectors by model and text
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates a new embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000 // Default: cache 10k embeddings
	}
	cache, err := lru.New[string, []float32](maxLen)
	if err != nil {
		// Should never happen with positive size, but fallback to default
		cache, _ = lru.New[string, []float32](10000)
	}
	return &Cache{
		cache: cache,
	}
}

// Get retrieves a copy of the cached vector
func (c *Cache) Get(model, text string) ([]float32, bool) {
	vec, ok := c.cache.Get(cacheKey(model, text))
	if !ok {
		return nil, false
	}
	return cloneVector(vec), true
}

// Set stores a copy of vec so later in-place normalization by callers
// cannot alter cached values
func (c *Cache) Set(model, text string, vec []float32) {
	c.cache.Add(cacheKey(model, text), cloneVector(vec))
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func cacheKey(model, text string) string {
	return ComputeHash(model + "\x00" + text)
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

// ValidateBatch validates a batch of texts
func ValidateBatch(texts []string) error {
	if len(texts) == 0 {
		return ErrEmptyInput
	}

	for i, text := range texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}

	return nil
}
