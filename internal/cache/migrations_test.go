package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	require.NoError(t, ApplyMigrations(ctx, store.db))

	v, err := currentVersion(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v.String())

	var n int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_version").Scan(&n))
	assert.Equal(t, len(AllMigrations), n)
}

func TestRollbackMigration(t *testing.T) {
	ctx := context.Background()
	store := setupTestDB(t)

	require.NoError(t, RollbackMigration(ctx, store.db))
	v, err := currentVersion(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	var name string
	err = store.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_cache_entries_created'").Scan(&name)
	assert.Error(t, err, "index should be dropped")

	require.NoError(t, ApplyMigrations(ctx, store.db))
	v, err = currentVersion(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v.String())
}
