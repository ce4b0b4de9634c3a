// Package types provides shared type definitions for semfind.
//
// These types cross package boundaries: the indexer produces them, the cache
// persists them, the searcher ranks them and the presentation layers (CLI and
// MCP server) render them.
//
// # Core Types
//
// LineRecord identifies one non-blank line of an input file:
//
//	rec := types.LineRecord{
//	    File:    "notes/todo.txt",
//	    LineNum: 3,
//	    Text:    "renew the TLS certificate",
//	}
//
// Line numbers are 1-based and refer to the source file. Blank lines are
// never indexed, so consecutive records may skip numbers.
//
// Entry pairs a record with its embedding vector, so a slice of entries can
// be concatenated, filtered or cached as one unit:
//
//	entries := []types.Entry{
//	    {Vector: v1, Record: rec1},
//	    {Vector: v2, Record: rec2},
//	}
//
// Result is a ranked match returned to callers:
//
//	for _, r := range results {
//	    fmt.Printf("%s:%d: %s (%.3f)\n", r.File, r.LineNum, r.Text, r.Score)
//	}
//
// # Errors
//
// FileError attributes a filesystem failure to the path that caused it. Use
// errors.As to recover the path:
//
//	var fe *types.FileError
//	if errors.As(err, &fe) {
//	    fmt.Fprintf(os.Stderr, "%s: %v\n", fe.Path, fe.Err)
//	}
package types
