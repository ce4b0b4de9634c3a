package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/semfind/pkg/types"
)

var (
	// ErrMiss is returned by Load when no usable entry exists for a key
	ErrMiss = errors.New("cache miss")
	// ErrInvalidKey is returned for keys that cannot name a cache entry
	ErrInvalidKey = errors.New("invalid cache key")
	// ErrMismatch is wrapped into ErrMiss when stored vectors and records disagree
	ErrMismatch = errors.New("vector and metadata counts differ")
)

// Backend names accepted by New
const (
	BackendDisk   = "disk"
	BackendSQLite = "sqlite"

	// SQLiteFileName is the database file created inside the cache directory
	SQLiteFileName = "semfind.db"
)

// Store persists embedded lines by cache key
type Store interface {
	// Load returns the entries saved under key, or an error wrapping ErrMiss
	Load(ctx context.Context, key string) ([]types.Entry, error)

	// Save writes entries under key, replacing any previous entry
	Save(ctx context.Context, key string, entries []types.Entry) error

	// Close releases any resources held by the store
	Close() error
}

// Options configures New
type Options struct {
	Backend string // BackendDisk (default) or BackendSQLite
	Dir     string
	Logger  Logger
}

// Logger is the subset of *log.Logger the stores use
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// New opens the store selected by opts.Backend
func New(opts Options) (Store, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendDisk:
		return NewDiskStore(opts.Dir, opts.Logger), nil
	case BackendSQLite:
		return OpenSQLiteDir(opts.Dir, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// IsMiss reports whether err means the entry was absent or unusable
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss)
}

// validateKey rejects keys that could escape the cache directory
func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// pairEntries rebuilds entries from decoded artifacts, reporting a count
// mismatch as a miss
func pairEntries(key string, vectors [][]float32, records []types.LineRecord) ([]types.Entry, error) {
	entries, ok := types.Pair(vectors, records)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %w (%d vectors, %d records)",
			ErrMiss, key, ErrMismatch, len(vectors), len(records))
	}
	return entries, nil
}
