//go:build !cgo_sqlite

package cache

// Pure Go SQLite driver, no C compiler required.
//
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the database/sql driver used by SQLiteStore
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
