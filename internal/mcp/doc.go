// Package mcp implements the Model Context Protocol (MCP) server for semfind.
//
// The server exposes three tools to MCP clients:
//   - semantic_search: rank the lines of files against a query
//   - index_files: embed files ahead of time so searches hit the cache
//   - get_status: report the model, cache location and backend
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Stdout carries protocol messages only; diagnostics go to stderr.
//
// # Tool: semantic_search
//
//	Request:
//	{
//	  "name": "semantic_search",
//	  "arguments": {
//	    "query": "database connection errors",
//	    "files": ["/var/log/app.log"],
//	    "top_k": 5,
//	    "min_score": 0.3
//	  }
//	}
//
//	Response:
//	{
//	  "results": [
//	    {"file": "/var/log/app.log", "line_num": 42, "text": "ERROR db: connection refused", "score": 0.71}
//	  ],
//	  "total_results": 1,
//	  "files_searched": 1,
//	  "files_from_cache": 1,
//	  "lines_indexed": 1200,
//	  "duration_ms": 8
//	}
//
// # Tool: index_files
//
//	Request:
//	{
//	  "name": "index_files",
//	  "arguments": {"files": ["notes.md", "todo.txt"], "reindex": false}
//	}
//
// The response lists, per file, the number of indexed lines, whether the
// cache was used and the cache key. Only one index_files call runs at a
// time; overlapping calls fail with -32002.
//
// # Error Codes
//
//	-32602  invalid parameters
//	-32603  internal error
//	-32002  indexing already in progress
//	-32004  empty query
//	-32005  file not found (data.missing lists the paths)
package mcp
