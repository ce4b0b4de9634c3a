package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"local/hash-384", ProviderLocal},
		{"text-embedding-3-small", ProviderOpenAI},
		{"openai/custom-model", ProviderOpenAI},
		{"jina-embeddings-v3", ProviderJina},
		{"jina/jina-embeddings-v2-base-en", ProviderJina},
		{"all-MiniLM-L6-v2", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProvider(tt.model))
		})
	}
}

func TestFactory(t *testing.T) {
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvJinaAPIKey, "")

	t.Run("local", func(t *testing.T) {
		emb, err := NewFactory(Config{})("local/hash-128")
		require.NoError(t, err)
		assert.Equal(t, ProviderLocal, emb.Provider())
		assert.Equal(t, 128, emb.Dimension())
	})

	t.Run("openai strips prefix", func(t *testing.T) {
		emb, err := NewFactory(Config{OpenAIAPIKey: "sk-test"})("openai/text-embedding-3-large")
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenAI, emb.Provider())
		assert.Equal(t, "text-embedding-3-large", emb.Model())
		assert.Equal(t, 3072, emb.Dimension())
	})

	t.Run("jina strips prefix", func(t *testing.T) {
		emb, err := NewFactory(Config{JinaAPIKey: "jina-test"})("jina/jina-embeddings-v3")
		require.NoError(t, err)
		assert.Equal(t, ProviderJina, emb.Provider())
		assert.Equal(t, "jina-embeddings-v3", emb.Model())
		assert.Equal(t, JinaDimension, emb.Dimension())
	})

	t.Run("openai without key", func(t *testing.T) {
		_, err := NewFactory(Config{})("text-embedding-3-small")
		assert.ErrorIs(t, err, ErrNoProviderEnabled)
	})

	t.Run("jina without key", func(t *testing.T) {
		_, err := NewFactory(Config{})("jina-embeddings-v3")
		assert.ErrorIs(t, err, ErrNoProviderEnabled)
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := NewFactory(Config{})("all-MiniLM-L6-v2")
		assert.ErrorIs(t, err, ErrUnsupportedModel)
	})
}

func TestBatches(t *testing.T) {
	texts := make([]string, 250)
	got := batches(texts, MaxBatchSize)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 100)
	assert.Len(t, got[1], 100)
	assert.Len(t, got[2], 50)

	assert.Empty(t, batches(nil, MaxBatchSize))
}
