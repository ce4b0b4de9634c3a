// Package cache persists per-file line embeddings under content-addressed keys.
//
// A cache key is derived from three inputs: the absolute path of the file,
// the SHA-256 digest of its bytes and the embedding model name. Editing a
// file or switching models therefore produces a new key; the old entry is
// never consulted again and is never deleted.
//
// # Keys
//
//	digest, err := cache.HashContent("notes.txt")
//	key, err := cache.Key("notes.txt", "local/hash-384", digest)
//
// # Backends
//
// DiskStore (default) writes two sidecar artifacts per key into a flat
// directory:
//
//	<key>.vec   binary float32 matrix (magic, rows, dim, little-endian values)
//	<key>.json  ordered [{"file", "line_num", "text"}] records
//
// Both artifacts must exist and agree on the row count for an entry to be
// served; anything else is reported as ErrMiss so the caller re-embeds the
// file and overwrites the pair. Artifacts are written to a temporary file and
// renamed into place, so a reader never sees a half-written artifact.
//
// SQLiteStore keeps one row per key in a single database file. It shares the
// matrix codec with DiskStore and writes each entry in one transaction.
//
// # Build Modes
//
// The SQLite backend uses the pure Go driver (modernc.org/sqlite) by default:
//
//	CGO_ENABLED=0 go build ./...
//
// Build with the cgo_sqlite tag to use github.com/mattn/go-sqlite3 instead:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// # Limits
//
// There is no eviction and no way to enumerate keys. Concurrent writers of
// the same key race; the last rename wins.
package cache
