package embedder

import (
	"fmt"
	"strings"
)

// Config holds credentials and endpoints for the remote providers
type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	JinaAPIKey    string
	JinaEndpoint  string
}

// NewFactory returns a Factory that picks the provider from the model name:
//
//	local/hash-<dim>              offline feature hashing
//	text-embedding-* | openai/<m> OpenAI
//	jina-* | jina/<m>             Jina AI
func NewFactory(cfg Config) Factory {
	return func(model string) (Embedder, error) {
		switch DetectProvider(model) {
		case ProviderLocal:
			return NewLocalProvider(model)
		case ProviderOpenAI:
			return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, strings.TrimPrefix(model, OpenAIPrefix))
		case ProviderJina:
			return NewJinaProvider(cfg.JinaAPIKey, cfg.JinaEndpoint, strings.TrimPrefix(model, JinaPrefix))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
		}
	}
}

// DetectProvider returns the provider name for model, or "" if none matches
func DetectProvider(model string) string {
	switch {
	case strings.HasPrefix(model, LocalPrefix):
		return ProviderLocal
	case strings.HasPrefix(model, OpenAIPrefix), strings.HasPrefix(model, "text-embedding-"):
		return ProviderOpenAI
	case strings.HasPrefix(model, JinaPrefix), strings.HasPrefix(model, "jina-"):
		return ProviderJina
	default:
		return ""
	}
}
