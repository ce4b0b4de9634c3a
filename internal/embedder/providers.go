package embedder

// Provider configuration
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderJina   = "jina"

	// Model name prefixes used to select a provider
	LocalPrefix  = "local/hash-"
	OpenAIPrefix = "openai/"
	JinaPrefix   = "jina/"

	// DefaultModel works offline and needs no API key
	DefaultModel = "local/hash-384"

	// Dimensions
	JinaDimension   = 1024
	OpenAIDimension = 1536

	// Local model bounds
	MinLocalDimension = 8
	MaxLocalDimension = 4096

	// Batch limits
	MaxBatchSize = 100

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 100
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0
)

// Environment variables read by the remote providers
const (
	EnvOpenAIAPIKey  = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvJinaAPIKey    = "JINA_API_KEY"
)

// batches splits texts into consecutive slices of at most size elements
func batches(texts []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		out = append(out, texts[start:end])
	}
	return out
}
