package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semfind/pkg/types"
)

const testKey = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"

func sampleEntries() []types.Entry {
	return []types.Entry{
		{Vector: []float32{1, 0, 0}, Record: types.LineRecord{File: "a.txt", LineNum: 1, Text: "a"}},
		{Vector: []float32{0, 0.6, 0.8}, Record: types.LineRecord{File: "a.txt", LineNum: 3, Text: "b"}},
	}
}

func TestDiskStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store := NewDiskStore(dir, nil)

	_, err := store.Load(ctx, testKey)
	assert.True(t, IsMiss(err), "empty store should miss")

	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))

	vectorPath, metadataPath := store.Paths(testKey)
	assert.FileExists(t, vectorPath)
	assert.FileExists(t, metadataPath)

	got, err := store.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestDiskStoreMetadataFormat(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir(), nil)
	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))

	_, metadataPath := store.Paths(testKey)
	blob, err := os.ReadFile(metadataPath)
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(blob, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "a.txt", records[1]["file"])
	assert.Equal(t, float64(3), records[1]["line_num"])
	assert.Equal(t, "b", records[1]["text"])
}

func TestDiskStorePartialEntryIsMiss(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		remove func(vectorPath, metadataPath string) string
	}{
		{name: "vector artifact missing", remove: func(v, _ string) string { return v }},
		{name: "metadata artifact missing", remove: func(_, m string) string { return m }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewDiskStore(t.TempDir(), nil)
			require.NoError(t, store.Save(ctx, testKey, sampleEntries()))

			require.NoError(t, os.Remove(tt.remove(store.Paths(testKey))))

			_, err := store.Load(ctx, testKey)
			assert.True(t, IsMiss(err))
		})
	}
}

func TestDiskStoreMismatchedPairIsMiss(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir(), nil)
	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))

	// Metadata from a different embed call with fewer lines
	_, metadataPath := store.Paths(testKey)
	blob, err := json.Marshal([]types.LineRecord{{File: "a.txt", LineNum: 1, Text: "a"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(metadataPath, blob, 0644))

	_, err = store.Load(ctx, testKey)
	assert.True(t, IsMiss(err))
	assert.ErrorIs(t, err, ErrMismatch)

	// A fresh save repairs the entry
	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))
	got, err := store.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDiskStoreCorruptArtifactsAreMiss(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt vectors", func(t *testing.T) {
		store := NewDiskStore(t.TempDir(), nil)
		require.NoError(t, store.Save(ctx, testKey, sampleEntries()))
		vectorPath, _ := store.Paths(testKey)
		require.NoError(t, os.WriteFile(vectorPath, []byte("garbage"), 0644))

		_, err := store.Load(ctx, testKey)
		assert.True(t, IsMiss(err))
	})

	t.Run("forged vector header", func(t *testing.T) {
		store := NewDiskStore(t.TempDir(), nil)
		require.NoError(t, store.Save(ctx, testKey, sampleEntries()))
		vectorPath, _ := store.Paths(testKey)
		require.NoError(t, os.WriteFile(vectorPath, matrixHeader(1<<31, 1<<31), 0644))

		_, err := store.Load(ctx, testKey)
		assert.True(t, IsMiss(err))
	})

	t.Run("corrupt metadata", func(t *testing.T) {
		store := NewDiskStore(t.TempDir(), nil)
		require.NoError(t, store.Save(ctx, testKey, sampleEntries()))
		_, metadataPath := store.Paths(testKey)
		require.NoError(t, os.WriteFile(metadataPath, []byte("{not json"), 0644))

		_, err := store.Load(ctx, testKey)
		assert.True(t, IsMiss(err))
	})
}

func TestDiskStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewDiskStore(dir, nil)

	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))
	require.NoError(t, store.Save(ctx, testKey, sampleEntries()))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestDiskStoreRejectsInvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := NewDiskStore(t.TempDir(), nil)

	for _, key := range []string{"", "../escape", "a/b", "a.b"} {
		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		assert.ErrorIs(t, store.Save(ctx, key, sampleEntries()), ErrInvalidKey, key)
	}
}

func TestNewSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	disk, err := New(Options{Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &DiskStore{}, disk)
	require.NoError(t, disk.Close())

	sqlite, err := New(Options{Dir: dir, Backend: BackendSQLite})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, sqlite)
	require.NoError(t, sqlite.Close())
	assert.FileExists(t, filepath.Join(dir, SQLiteFileName))

	_, err = New(Options{Dir: dir, Backend: "redis"})
	assert.Error(t, err)

	_, err = New(Options{})
	assert.Error(t, err)
}
