package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semfind/internal/cache"
	"github.com/dshills/semfind/internal/embedder"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvCacheDir, EnvCacheBackend, EnvModel, EnvTopK, EnvWorkers, EnvEmbedCacheSize,
		embedder.EnvOpenAIAPIKey, embedder.EnvOpenAIBaseURL, embedder.EnvJinaAPIKey,
	} {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".cache", "semfind"), cfg.CacheDir)
	assert.Equal(t, cache.BackendDisk, cfg.CacheBackend)
	assert.Equal(t, embedder.DefaultModel, cfg.Model)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, DefaultEmbedCacheSize, cfg.EmbedCacheSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvCacheDir, dir)
	t.Setenv(EnvCacheBackend, "sqlite")
	t.Setenv(EnvModel, "local/hash-64")
	t.Setenv(EnvTopK, "12")
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvEmbedCacheSize, "0")
	t.Setenv(embedder.EnvOpenAIAPIKey, "sk-test")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.CacheDir)
	assert.Equal(t, cache.BackendSQLite, cfg.CacheBackend)
	assert.Equal(t, "local/hash-64", cfg.Model)
	assert.Equal(t, 12, cfg.TopK)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 0, cfg.EmbedCacheSize)
	assert.Equal(t, "sk-test", cfg.Embedder.OpenAIAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// t.Setenv registers cleanup; unset so godotenv sees the keys as absent
	require.NoError(t, os.Unsetenv(EnvModel))
	require.NoError(t, os.Unsetenv(EnvTopK))
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvModel)
		_ = os.Unsetenv(EnvTopK)
	})
	t.Setenv(EnvCacheDir, t.TempDir())

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SEMFIND_MODEL=local/hash-32\nSEMFIND_TOP_K=9\n"), 0644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "local/hash-32", cfg.Model)
	assert.Equal(t, 9, cfg.TopK)
}

func TestLoadInvalidInt(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCacheDir, t.TempDir())
	t.Setenv(EnvTopK, "many")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTopK)
}

func TestLoadExpandsHome(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvCacheDir, "~/vectors")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "vectors"), cfg.CacheDir)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			CacheDir:     "/tmp/semfind",
			CacheBackend: cache.BackendDisk,
			Model:        embedder.DefaultModel,
			TopK:         5,
			Workers:      2,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"unknown backend", func(c *Config) { c.CacheBackend = "redis" }, ErrUnknownBackend},
		{"zero top k", func(c *Config) { c.TopK = 0 }, ErrInvalidTopK},
		{"zero workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
		{"negative cache", func(c *Config) { c.EmbedCacheSize = -1 }, ErrInvalidCache},
		{"empty model", func(c *Config) { c.Model = "" }, embedder.ErrUnsupportedModel},
	}

	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), tt.want)
		})
	}
}
