package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/embedder"
	"github.com/dshills/semfind/pkg/types"
)

// ErrNotText is returned for files whose content is not valid UTF-8
var ErrNotText = errors.New("content is not valid UTF-8 text")

// Embeddings produces raw vectors for a batch of texts under a model.
// *embedder.Registry satisfies it.
type Embeddings interface {
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// Builder turns files into per-line vector indexes, reusing cached
// artifacts when the content, path and model are unchanged
type Builder struct {
	store      cache.Store
	embeddings Embeddings
	logger     *log.Logger

	// Worker pool configuration
	workers int
}

// Config contains configuration for the builder
type Config struct {
	Workers int         // Number of concurrent file builds (default: runtime.NumCPU())
	Logger  *log.Logger // Diagnostics sink (default: discard)
}

// Options controls a single build
type Options struct {
	Model   string // Embedding model name
	Reindex bool   // Ignore existing cache entries but still write new ones
	NoCache bool   // Neither read nor write the cache
}

// FileIndex holds the embedded non-blank lines of one file
type FileIndex struct {
	Path      string
	Key       string
	Entries   []types.Entry
	FromCache bool
}

// Len returns the number of indexed lines
func (fi *FileIndex) Len() int {
	return len(fi.Entries)
}

// Statistics contains statistics about a multi-file build
type Statistics struct {
	FilesIndexed   int
	FilesFromCache int
	LinesIndexed   int
	Duration       time.Duration
}

// New creates a Builder. A nil store disables caching entirely.
func New(store cache.Store, embeddings Embeddings, config *Config) *Builder {
	if config == nil {
		config = &Config{}
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Builder{
		store:      store,
		embeddings: embeddings,
		logger:     logger,
		workers:    workers,
	}
}

// Workers returns the configured concurrency
func (b *Builder) Workers() int {
	return b.workers
}

// BuildIndex embeds every non-blank line of path, or loads the result of a
// previous identical build from the cache
func (b *Builder) BuildIndex(ctx context.Context, path string, opts Options) (*FileIndex, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("%w: empty model name", embedder.ErrUnsupportedModel)
	}

	useCache := b.store != nil && !opts.NoCache

	if useCache && !opts.Reindex {
		fi, err := b.loadCached(ctx, path, opts.Model)
		if err != nil {
			return nil, err
		}
		if fi != nil {
			return fi, nil
		}
	}

	content, err := readText(path)
	if err != nil {
		return nil, err
	}

	key, err := cache.Key(path, opts.Model, cache.HashBytes(content))
	if err != nil {
		return nil, err
	}

	records := SplitLines(path, content)
	fi := &FileIndex{Path: path, Key: key}
	if len(records) == 0 {
		return fi, nil
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}

	vectors, err := b.embeddings.Embed(ctx, opts.Model, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", path, err)
	}
	embedder.NormalizeRows(vectors)

	entries, ok := types.Pair(vectors, records)
	if !ok {
		return nil, fmt.Errorf("%w: %s: %d vectors for %d lines",
			embedder.ErrProviderFailed, path, len(vectors), len(records))
	}
	fi.Entries = entries

	if useCache {
		if err := b.store.Save(ctx, key, entries); err != nil {
			return nil, fmt.Errorf("failed to cache %s: %w", path, err)
		}
		b.logger.Printf("indexed %s: %d lines (cached as %s)", path, len(entries), key)
	} else {
		b.logger.Printf("indexed %s: %d lines", path, len(entries))
	}

	return fi, nil
}

// loadCached returns the cached index for path, or nil when there is none
func (b *Builder) loadCached(ctx context.Context, path, model string) (*FileIndex, error) {
	digest, err := cache.HashContent(path)
	if err != nil {
		return nil, err
	}
	key, err := cache.Key(path, model, digest)
	if err != nil {
		return nil, err
	}

	entries, err := b.store.Load(ctx, key)
	switch {
	case err == nil:
		b.logger.Printf("cache hit for %s: %d lines", path, len(entries))
		return &FileIndex{Path: path, Key: key, Entries: entries, FromCache: true}, nil
	case cache.IsMiss(err):
		return nil, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		// An unreadable cache entry only costs a rebuild
		b.logger.Printf("cache load for %s failed, rebuilding: %v", path, err)
		return nil, nil
	}
}

// IndexFiles builds every path concurrently. Results are in input order.
// The first failure cancels the remaining builds and is returned.
func (b *Builder) IndexFiles(ctx context.Context, paths []string, opts Options) ([]*FileIndex, *Statistics, error) {
	startTime := time.Now()
	results := make([]*FileIndex, len(paths))

	var (
		fromCache int32
		lines     int32
	)

	// Use errgroup for concurrent processing with error propagation
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fi, err := b.BuildIndex(gctx, path, opts)
			if err != nil {
				return err
			}

			if fi.FromCache {
				atomic.AddInt32(&fromCache, 1)
			}
			atomic.AddInt32(&lines, int32(fi.Len()))
			results[i] = fi
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	stats := &Statistics{
		FilesIndexed:   len(paths),
		FilesFromCache: int(fromCache),
		LinesIndexed:   int(lines),
		Duration:       time.Since(startTime),
	}
	return results, stats, nil
}

// MissingFiles returns the paths that are not existing regular files, in
// input order
func MissingFiles(paths []string) []string {
	var missing []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			missing = append(missing, p)
		}
	}
	return missing
}

// ReadLines reads path and returns its non-blank lines
func ReadLines(path string) ([]types.LineRecord, error) {
	content, err := readText(path)
	if err != nil {
		return nil, err
	}
	return SplitLines(path, content), nil
}

// readText reads path and rejects content that is not UTF-8, since line
// text must survive the JSON cache metadata unchanged
func readText(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewFileError("read", path, err)
	}
	if !utf8.Valid(content) {
		return nil, types.NewFileError("decode", path, ErrNotText)
	}
	return content, nil
}

// SplitLines returns the non-blank lines of content. Lines that are empty
// after trimming whitespace are dropped; the rest keep their text
// unmodified and their 1-based line number.
func SplitLines(path string, content []byte) []types.LineRecord {
	var records []types.LineRecord
	for i, line := range RawLines(content) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, types.LineRecord{
			File:    path,
			LineNum: i + 1,
			Text:    line,
		})
	}
	return records
}

// RawLines splits content into lines without their terminators, treating
// "\r\n", "\r" and "\n" as line ends. A final terminator does not start
// an extra empty line.
func RawLines(content []byte) []string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
