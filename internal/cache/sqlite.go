package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/semfind/pkg/types"
)

// SQLiteStore keeps cache entries in a single SQLite database
type SQLiteStore struct {
	db     *sql.DB
	logger Logger
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL lets readers proceed while another process writes an entry
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// migrations. Use ":memory:" for a throwaway store.
func NewSQLiteStore(dbPath string, logger Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// OpenSQLiteDir opens the store's database file inside dir, creating dir
func OpenSQLiteDir(dir string, logger Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return NewSQLiteStore(filepath.Join(dir, SQLiteFileName), logger)
}

// Load returns the entries stored under key
func (s *SQLiteStore) Load(ctx context.Context, key string) ([]types.Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	query := `
		SELECT row_count, vectors, metadata
		FROM cache_entries
		WHERE cache_key = ?
	`
	var (
		rowCount int
		blob     []byte
		metadata string
	)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&rowCount, &blob, &metadata)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entry: %w", err)
	}

	vectors, err := decodeMatrix(blob)
	if err != nil {
		s.logger.Printf("cache: discarding row %s: %v", key, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrMiss, key, err)
	}

	var records []types.LineRecord
	if err := json.Unmarshal([]byte(metadata), &records); err != nil {
		s.logger.Printf("cache: discarding row %s: %v", key, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrMiss, key, err)
	}

	if rowCount != len(vectors) {
		s.logger.Printf("cache: discarding row %s: row_count %d, decoded %d", key, rowCount, len(vectors))
		return nil, fmt.Errorf("%w: %s: %w", ErrMiss, key, ErrMismatch)
	}

	entries, err := pairEntries(key, vectors, records)
	if err != nil {
		s.logger.Printf("cache: discarding row %s: %v", key, err)
		return nil, err
	}
	return entries, nil
}

// Save replaces the entry stored under key in one transaction
func (s *SQLiteStore) Save(ctx context.Context, key string, entries []types.Entry) error {
	if err := validateKey(key); err != nil {
		return err
	}

	vectors := types.Vectors(entries)
	blob, err := encodeMatrix(vectors)
	if err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}
	metadata, err := json.Marshal(types.Records(entries))
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	dimension := 0
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT OR REPLACE INTO cache_entries (cache_key, dimension, row_count, vectors, metadata)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, query, key, dimension, len(vectors), blob, string(metadata)); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}
	return nil
}

// Stats summarizes the stored entries
type Stats struct {
	Entries int
	Oldest  string // created_at of the oldest entry, empty when there are none
	Newest  string // created_at of the most recently written entry
}

// Stats counts the stored entries and reports the range of their write
// times. Save replaces rows, so an entry's time is its last rebuild.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	query := `
		SELECT COUNT(*), MIN(created_at), MAX(created_at)
		FROM cache_entries
	`
	var (
		stats          Stats
		oldest, newest sql.NullString
	)
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Entries, &oldest, &newest); err != nil {
		return Stats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	stats.Oldest = oldest.String
	stats.Newest = newest.String
	return stats, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
