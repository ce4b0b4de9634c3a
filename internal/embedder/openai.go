package embedder

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// openAIDimensions lists the output size of known OpenAI embedding models
var openAIDimensions = map[string]int{
	"text-embedding-3-small": OpenAIDimension,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": OpenAIDimension,
}

// OpenAIProvider implements Embedder using the OpenAI embeddings API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	retry  RetryConfig
}

// NewOpenAIProvider creates an OpenAI embedder. Empty apiKey and baseURL
// fall back to OPENAI_API_KEY and OPENAI_BASE_URL.
func NewOpenAIProvider(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvOpenAIAPIKey)
	}
	if baseURL == "" {
		baseURL = os.Getenv(EnvOpenAIBaseURL)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		retry:  DefaultRetryConfig(),
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, MaxBatchSize) {
		vectors, err := retryWithBackoff(ctx, o.retry, func() ([][]float32, error) {
			return o.callAPI(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProviderFailed, err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, classifyOpenAIError(fmt.Errorf("api call: %w", err))
	}
	return orderByIndex(len(texts), len(resp.Data), func(i int) (int, []float32) {
		return resp.Data[i].Index, resp.Data[i].Embedding
	})
}

func (o *OpenAIProvider) Dimension() int {
	return openAIDimensions[o.model]
}

func (o *OpenAIProvider) Provider() string {
	return ProviderOpenAI
}

func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Close() error {
	return nil
}

// classifyOpenAIError marks responses with a non-retryable HTTP status as
// permanent. Transport errors carry no status and stay retryable.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return permanentUnless(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return permanentUnless(reqErr.HTTPStatusCode, err)
	}
	return err
}

// orderByIndex places API rows by their reported index, so output order
// matches input order even if the service reorders the list
func orderByIndex(want, got int, row func(i int) (int, []float32)) ([][]float32, error) {
	if got != want {
		return nil, fmt.Errorf("api returned %d embeddings for %d inputs", got, want)
	}
	out := make([][]float32, want)
	for i := 0; i < got; i++ {
		idx, vec := row(i)
		if idx < 0 || idx >= want || out[idx] != nil {
			return nil, fmt.Errorf("api returned invalid embedding index %d", idx)
		}
		out[idx] = vec
	}
	return out, nil
}
