package searcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/dshills/semfind/internal/embedder"
	"github.com/dshills/semfind/internal/indexer"
	"github.com/dshills/semfind/internal/vecindex"
	"github.com/dshills/semfind/pkg/types"
)

// Request validation errors
var (
	ErrEmptyQuery  = errors.New("query cannot be empty")
	ErrInvalidTopK = errors.New("top_k must be at least 1")
	ErrNoFiles     = errors.New("at least one file is required")
)

// Request contains parameters for a search operation
type Request struct {
	Query    string
	Files    []string
	TopK     int
	MinScore *float64 // Drop results scoring strictly below this; nil keeps all
	Model    string   // Defaults to embedder.DefaultModel
	Reindex  bool
	NoCache  bool
}

// Response contains search results and metadata
type Response struct {
	Results        []types.Result
	FilesSearched  int
	FilesFromCache int
	LinesIndexed   int
	Duration       time.Duration
}

// Searcher ranks the lines of a set of files against a query
type Searcher struct {
	builder    *indexer.Builder
	embeddings indexer.Embeddings
	logger     *log.Logger
}

// NewSearcher creates a new Searcher. The embeddings source must be the
// same one the builder uses so query and lines share a vector space.
func NewSearcher(builder *indexer.Builder, embeddings indexer.Embeddings, logger *log.Logger) *Searcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Searcher{
		builder:    builder,
		embeddings: embeddings,
		logger:     logger,
	}
}

// Search builds or loads the index of every file, then returns the lines
// most similar to the query, best first
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	// Validate searcher state
	if s.builder == nil || s.embeddings == nil {
		return nil, fmt.Errorf("searcher not initialized")
	}

	// Validate request
	if err := validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	opts := indexer.Options{Model: req.Model, Reindex: req.Reindex, NoCache: req.NoCache}
	indexes, stats, err := s.builder.IndexFiles(ctx, req.Files, opts)
	if err != nil {
		return nil, err
	}

	corpus := concat(indexes)
	response := &Response{
		FilesSearched:  stats.FilesIndexed,
		FilesFromCache: stats.FilesFromCache,
		LinesIndexed:   len(corpus),
	}

	if len(corpus) == 0 {
		s.logger.Printf("no indexable lines in %d file(s)", len(req.Files))
		response.Results = []types.Result{}
		response.Duration = time.Since(startTime)
		return response, nil
	}

	queryVec, err := s.embeddings.Embed(ctx, req.Model, []string{req.Query})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	embedder.Normalize(queryVec[0])

	index := vecindex.NewFlat(len(queryVec[0]))
	if err := index.AddAll(types.Vectors(corpus)); err != nil {
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	matches, err := index.Search(queryVec[0], req.TopK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	response.Results = Rank(matches, corpus, req.TopK, req.MinScore)
	response.Duration = time.Since(startTime)

	s.logger.Printf("searched %d lines in %d file(s) (%d cached): %d result(s) in %v",
		response.LinesIndexed, response.FilesSearched, response.FilesFromCache,
		len(response.Results), response.Duration)

	return response, nil
}

// concat joins per-file entries in file order, skipping empty files
func concat(indexes []*indexer.FileIndex) []types.Entry {
	total := 0
	for _, fi := range indexes {
		total += fi.Len()
	}
	corpus := make([]types.Entry, 0, total)
	for _, fi := range indexes {
		corpus = append(corpus, fi.Entries...)
	}
	return corpus
}

// validateRequest ensures search request is valid and fills defaults
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.Query) == "" {
		return ErrEmptyQuery
	}

	if req.TopK < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, req.TopK)
	}

	if len(req.Files) == 0 {
		return ErrNoFiles
	}

	if req.Model == "" {
		req.Model = embedder.DefaultModel
	}

	return nil
}
