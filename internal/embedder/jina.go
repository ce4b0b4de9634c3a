package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultJinaEndpoint is the Jina AI embeddings API
const DefaultJinaEndpoint = "https://api.jina.ai/v1/embeddings"

// jinaDimensions lists the output size of known Jina embedding models
var jinaDimensions = map[string]int{
	"jina-embeddings-v3":         JinaDimension,
	"jina-embeddings-v2-base-en": 768,
}

// JinaProvider implements Embedder using Jina AI API
type JinaProvider struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	retry      RetryConfig
}

// NewJinaProvider creates a new Jina AI embedder. An empty endpoint uses
// DefaultJinaEndpoint.
func NewJinaProvider(apiKey, endpoint, model string) (*JinaProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv(EnvJinaAPIKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s not set", ErrNoProviderEnabled, EnvJinaAPIKey)
	}
	if endpoint == "" {
		endpoint = DefaultJinaEndpoint
	}

	return &JinaProvider{
		apiKey:   apiKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}, nil
}

func (j *JinaProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, MaxBatchSize) {
		vectors, err := retryWithBackoff(ctx, j.retry, func() ([][]float32, error) {
			return j.callAPI(ctx, batch)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProviderFailed, err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (j *JinaProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := map[string]interface{}{
		"input": texts,
		"model": j.model,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", j.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, permanentUnless(resp.StatusCode,
			fmt.Errorf("api error %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return orderByIndex(len(texts), len(apiResp.Data), func(i int) (int, []float32) {
		return apiResp.Data[i].Index, apiResp.Data[i].Embedding
	})
}

func (j *JinaProvider) Dimension() int {
	return jinaDimensions[j.model]
}

func (j *JinaProvider) Provider() string {
	return ProviderJina
}

func (j *JinaProvider) Model() string {
	return j.model
}

func (j *JinaProvider) Close() error {
	j.httpClient.CloseIdleConnections()
	return nil
}
