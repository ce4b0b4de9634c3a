package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/semfind/pkg/types"
)

const (
	vectorExt   = ".vec"
	metadataExt = ".json"
)

// DiskStore keeps each entry as a pair of sidecar files in one directory
type DiskStore struct {
	dir    string
	logger Logger
}

// NewDiskStore returns a store rooted at dir. The directory is created on
// the first Save.
func NewDiskStore(dir string, logger Logger) *DiskStore {
	if logger == nil {
		logger = nopLogger{}
	}
	return &DiskStore{dir: dir, logger: logger}
}

// Dir returns the cache directory
func (s *DiskStore) Dir() string {
	return s.dir
}

// Paths returns the vector and metadata artifact paths for key
func (s *DiskStore) Paths(key string) (vectorPath, metadataPath string) {
	return filepath.Join(s.dir, key+vectorExt), filepath.Join(s.dir, key+metadataExt)
}

// Load reads both artifacts for key. A missing, undecodable or inconsistent
// pair is reported as ErrMiss.
func (s *DiskStore) Load(ctx context.Context, key string) ([]types.Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectorPath, metadataPath := s.Paths(key)

	vectorBlob, err := readArtifact(vectorPath)
	if err != nil {
		return nil, err
	}
	metadataBlob, err := readArtifact(metadataPath)
	if err != nil {
		return nil, err
	}

	vectors, err := decodeMatrix(vectorBlob)
	if err != nil {
		s.logger.Printf("cache: discarding %s: %v", vectorPath, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrMiss, key, err)
	}

	var records []types.LineRecord
	if err := json.Unmarshal(metadataBlob, &records); err != nil {
		s.logger.Printf("cache: discarding %s: %v", metadataPath, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrMiss, key, err)
	}

	entries, err := pairEntries(key, vectors, records)
	if err != nil {
		s.logger.Printf("cache: discarding %s: %v", key, err)
		return nil, err
	}
	return entries, nil
}

// Save writes the vector artifact and then the metadata artifact, each
// through a rename so neither is ever observed half written
func (s *DiskStore) Save(ctx context.Context, key string, entries []types.Entry) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	vectorBlob, err := encodeMatrix(types.Vectors(entries))
	if err != nil {
		return fmt.Errorf("failed to encode vectors: %w", err)
	}
	metadataBlob, err := json.Marshal(types.Records(entries))
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	vectorPath, metadataPath := s.Paths(key)
	if err := writeAtomic(s.dir, vectorPath, vectorBlob); err != nil {
		return err
	}
	return writeAtomic(s.dir, metadataPath, metadataBlob)
}

// Close is a no-op for the disk store
func (s *DiskStore) Close() error {
	return nil
}

// readArtifact reads one sidecar file, mapping absence to ErrMiss
func readArtifact(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMiss, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache artifact: %w", err)
	}
	return blob, nil
}

// writeAtomic writes data to a temporary file in dir and renames it to path
func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
