package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/semfind/internal/config"
)

// setupEnv points the cache at a fresh directory and returns it
func setupEnv(t *testing.T) string {
	t.Helper()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv(config.EnvCacheDir, cacheDir)
	t.Setenv(config.EnvCacheBackend, "disk")
	t.Setenv(config.EnvModel, "local/hash-128")
	t.Setenv(config.EnvTopK, "")
	t.Setenv(config.EnvWorkers, "2")
	t.Setenv(config.EnvEmbedCacheSize, "")
	return cacheDir
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

const notes = `buy milk and eggs
call the plumber about the leak

fix the login bug in the auth service
water the plants
`

func TestSearchPrintsResults(t *testing.T) {
	setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	code, stdout, stderr := execute(t, "-k", "2", "--color", "never", "login bug", path)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], path+":4: fix the login bug in the auth service  ("), lines[0])
}

func TestSearchWithContext(t *testing.T) {
	setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	code, stdout, _ := execute(t, "-k", "1", "-n", "1", "--color", "never", "login bug", path)
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, path+":3: ", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], path+":4: "))
	assert.Equal(t, path+":5: water the plants", lines[2])
}

func TestMissingFilesExitBeforeIndexing(t *testing.T) {
	cacheDir := setupEnv(t)
	present := writeFile(t, "notes.txt", notes)
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	code, stdout, stderr := execute(t, "query", a, present, b)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "semfind: "+a+": No such file\nsemfind: "+b+": No such file\n", stderr)

	_, err := os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(err), "nothing may be indexed when files are missing")
}

func TestNoResults(t *testing.T) {
	setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	code, stdout, stderr := execute(t, "-m", "1.5", "login bug", path)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "No results found.\n", stderr)
}

func TestNoCacheWritesNothing(t *testing.T) {
	cacheDir := setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	for i := 0; i < 2; i++ {
		code, _, _ := execute(t, "--no-cache", "plants", path)
		require.Equal(t, 0, code)
	}

	entries, err := os.ReadDir(cacheDir)
	if err == nil {
		assert.Empty(t, entries)
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}

func TestCacheIsWritten(t *testing.T) {
	cacheDir := setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	code, _, _ := execute(t, "plants", path)
	require.Equal(t, 0, code)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "one vector and one metadata artifact")
}

func TestVerboseLogsToStderr(t *testing.T) {
	setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	code, _, stderr := execute(t, "-v", "plants", path)
	require.Equal(t, 0, code)
	assert.Contains(t, stderr, "semfind: indexed "+path)
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	code, stdout, _ := execute(t, "--version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "semfind dev\n", stdout)
}

func TestUsageErrors(t *testing.T) {
	setupEnv(t)
	path := writeFile(t, "notes.txt", notes)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"query"}, "requires at least 2 arg(s)"},
		{"bad color", []string{"--color", "rainbow", "q", path}, "color must be"},
		{"bad top k", []string{"-k", "0", "q", path}, "top_k must be at least 1"},
		{"negative context", []string{"-n", "-1", "q", path}, "--context"},
		{"unknown model", []string{"--model", "nope", "q", path}, "unsupported model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}
