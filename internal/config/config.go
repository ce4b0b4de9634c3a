// Package config loads semfind settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/embedder"
)

// Environment variables
const (
	EnvCacheDir       = "SEMFIND_CACHE_DIR"
	EnvCacheBackend   = "SEMFIND_CACHE_BACKEND"
	EnvModel          = "SEMFIND_MODEL"
	EnvTopK           = "SEMFIND_TOP_K"
	EnvWorkers        = "SEMFIND_WORKERS"
	EnvEmbedCacheSize = "SEMFIND_EMBED_CACHE_SIZE"
)

// Defaults
const (
	DefaultTopK           = 5
	DefaultEmbedCacheSize = 10000
)

// Validation errors
var (
	ErrUnknownBackend = errors.New("unknown cache backend")
	ErrInvalidTopK    = errors.New("top_k must be at least 1")
	ErrInvalidWorkers = errors.New("workers must be at least 1")
	ErrInvalidCache   = errors.New("embedding cache size cannot be negative")
)

// Config holds every setting the binaries need
type Config struct {
	CacheDir       string
	CacheBackend   string
	Model          string
	TopK           int
	Workers        int
	EmbedCacheSize int // 0 disables the in-memory embedding cache

	Embedder embedder.Config
}

// Load reads .env files (missing files are ignored) and then the process
// environment. Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cacheDir := os.Getenv(EnvCacheDir)
	if cacheDir == "" {
		dir, err := DefaultCacheDir()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}

	cfg := &Config{
		CacheDir:     expandHome(cacheDir),
		CacheBackend: getString(EnvCacheBackend, cache.BackendDisk),
		Model:        getString(EnvModel, embedder.DefaultModel),
		Embedder: embedder.Config{
			OpenAIAPIKey:  os.Getenv(embedder.EnvOpenAIAPIKey),
			OpenAIBaseURL: os.Getenv(embedder.EnvOpenAIBaseURL),
			JinaAPIKey:    os.Getenv(embedder.EnvJinaAPIKey),
		},
	}

	var err error
	if cfg.TopK, err = getInt(EnvTopK, DefaultTopK); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getInt(EnvWorkers, runtime.NumCPU()); err != nil {
		return nil, err
	}
	if cfg.EmbedCacheSize, err = getInt(EnvEmbedCacheSize, DefaultEmbedCacheSize); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the settings are usable
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case cache.BackendDisk, cache.BackendSQLite:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownBackend, c.CacheBackend, cache.BackendDisk, cache.BackendSQLite)
	}
	if c.CacheDir == "" {
		return fmt.Errorf("cache directory is required")
	}
	if c.Model == "" {
		return fmt.Errorf("%w: empty model name", embedder.ErrUnsupportedModel)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.TopK)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.EmbedCacheSize < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCache, c.EmbedCacheSize)
	}
	return nil
}

// DefaultCacheDir returns $HOME/.cache/semfind
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "semfind"), nil
}

// expandHome replaces a leading ~ with the home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getString(key, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, val, err)
	}
	return n, nil
}
