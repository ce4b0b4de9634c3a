package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/indexer"
	"github.com/dshills/semfind/internal/searcher"
	"github.com/dshills/semfind/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another index_files call is already running
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
	ErrorCodeFileNotFound       = -32005 // One or more files do not exist
)

// handleSemanticSearch handles the semantic_search tool invocation
func (s *Server) handleSemanticSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	files, err := getFiles(args)
	if err != nil {
		return nil, err
	}

	topK := getIntDefault(args, "top_k", s.app.Config.TopK)
	if topK < 1 {
		return nil, newMCPError(ErrorCodeInvalidParams, "top_k must be at least 1", map[string]interface{}{
			"param": "top_k",
			"value": topK,
		})
	}

	req := searcher.Request{
		Query:   query,
		Files:   files,
		TopK:    topK,
		Model:   getStringDefault(args, "model", s.app.Config.Model),
		Reindex: getBoolDefault(args, "reindex", false),
		NoCache: getBoolDefault(args, "no_cache", false),
	}
	if minScore, ok := args["min_score"].(float64); ok {
		req.MinScore = &minScore
	}

	resp, err := s.app.Searcher.Search(ctx, req)
	if err != nil {
		return nil, toMCPError("search failed", err)
	}

	results := resp.Results
	if results == nil {
		results = []types.Result{}
	}

	response := map[string]interface{}{
		"results":          results,
		"total_results":    len(results),
		"files_searched":   resp.FilesSearched,
		"files_from_cache": resp.FilesFromCache,
		"lines_indexed":    resp.LinesIndexed,
		"duration_ms":      resp.Duration.Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleIndexFiles handles the index_files tool invocation
func (s *Server) handleIndexFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	files, err := getFiles(args)
	if err != nil {
		return nil, err
	}

	if !s.indexLock.TryAcquire() {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", nil)
	}
	defer s.indexLock.Release()

	opts := indexer.Options{
		Model:   getStringDefault(args, "model", s.app.Config.Model),
		Reindex: getBoolDefault(args, "reindex", false),
	}

	indexes, stats, err := s.app.Builder.IndexFiles(ctx, files, opts)
	if err != nil {
		return nil, toMCPError("indexing failed", err)
	}

	perFile := make([]map[string]interface{}, len(indexes))
	for i, fi := range indexes {
		perFile[i] = map[string]interface{}{
			"file":       fi.Path,
			"lines":      fi.Len(),
			"from_cache": fi.FromCache,
			"key":        fi.Key,
		}
	}

	response := map[string]interface{}{
		"indexed":          true,
		"model":            opts.Model,
		"files":            perFile,
		"files_indexed":    stats.FilesIndexed,
		"files_from_cache": stats.FilesFromCache,
		"lines_indexed":    stats.LinesIndexed,
		"duration_ms":      stats.Duration.Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := s.app.Config

	cacheInfo := map[string]interface{}{
		"dir":        cfg.CacheDir,
		"backend":    cfg.CacheBackend,
		"driver":     cache.DriverName,
		"build_mode": cache.BuildMode,
	}
	if sqlStore, ok := s.app.Store.(*cache.SQLiteStore); ok {
		stats, err := sqlStore.Stats(ctx)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
				"error": err.Error(),
			})
		}
		cacheInfo["entries"] = stats.Entries
		cacheInfo["oldest_entry"] = stats.Oldest
		cacheInfo["newest_entry"] = stats.Newest
	}

	response := map[string]interface{}{
		"server":               ServerName,
		"version":              ServerVersion,
		"model":                cfg.Model,
		"top_k":                cfg.TopK,
		"workers":              s.app.Builder.Workers(),
		"cache":                cacheInfo,
		"embedding_cache_size": cfg.EmbedCacheSize,
		"loaded_models":        s.app.Registry.Loaded(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// toMCPError maps errors from the search pipeline to MCP error codes
func toMCPError(message string, err error) error {
	data := map[string]interface{}{"error": err.Error()}

	var fileErr *types.FileError
	switch {
	case errors.Is(err, searcher.ErrEmptyQuery):
		return newMCPError(ErrorCodeEmptyQuery, err.Error(), data)
	case errors.Is(err, searcher.ErrInvalidTopK), errors.Is(err, searcher.ErrNoFiles):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), data)
	case errors.As(err, &fileErr) && errors.Is(err, indexer.ErrNotText):
		data["file"] = fileErr.Path
		return newMCPError(ErrorCodeInvalidParams, "file is not UTF-8 text", data)
	case errors.As(err, &fileErr) && errors.Is(err, os.ErrNotExist):
		data["missing"] = []string{fileErr.Path}
		return newMCPError(ErrorCodeFileNotFound, "file not found", data)
	default:
		return newMCPError(ErrorCodeInternalError, message, data)
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// getFiles extracts the files parameter and checks that every entry is an
// existing regular file
func getFiles(args map[string]interface{}) ([]string, error) {
	raw, ok := args["files"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "files parameter is required", map[string]interface{}{
			"param":  "files",
			"reason": "missing or empty",
		})
	}

	files := make([]string, 0, len(raw))
	for i, v := range raw {
		path, ok := v.(string)
		if !ok || path == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "files must be non-empty strings", map[string]interface{}{
				"param": "files",
				"index": i,
			})
		}
		files = append(files, path)
	}

	if missing := indexer.MissingFiles(files); len(missing) > 0 {
		return nil, newMCPError(ErrorCodeFileNotFound, "file not found", map[string]interface{}{
			"missing": missing,
		})
	}

	return files, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok && val != "" {
		return val
	}
	return defaultValue
}
