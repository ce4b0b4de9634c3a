package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// semanticSearchTool returns the tool definition for semantic_search
func semanticSearchTool() mcp.Tool {
	return mcp.Tool{
		Name:        "semantic_search",
		Description: "Find the lines of text files that are closest in meaning to a query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural language query",
				},
				"files": map[string]interface{}{
					"type":        "array",
					"description": "Paths of the files to search",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     5,
					"minimum":     1,
				},
				"min_score": map[string]interface{}{
					"type":        "number",
					"description": "Drop results with a similarity below this value (-1.0 to 1.0)",
					"minimum":     -1.0,
					"maximum":     1.0,
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Embedding model (local/hash-<dim>, text-embedding-*, jina-*)",
				},
				"reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-embed files even when a cached index exists",
					"default":     false,
				},
				"no_cache": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, neither read nor write the embedding cache",
					"default":     false,
				},
			},
			Required: []string{"query", "files"},
		},
	}
}

// indexFilesTool returns the tool definition for index_files
func indexFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_files",
		Description: "Embed files ahead of time so later searches are served from cache",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"files": map[string]interface{}{
					"type":        "array",
					"description": "Paths of the files to index",
					"items": map[string]interface{}{
						"type": "string",
					},
					"minItems": 1,
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Embedding model (local/hash-<dim>, text-embedding-*, jina-*)",
				},
				"reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-embed files even when a cached index exists",
					"default":     false,
				},
			},
			Required: []string{"files"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report the active model, cache location and backend",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
