// Package embedder turns lines of text into vectors.
//
// Models are named by string and resolved to a provider:
//
//	local/hash-<dim>               offline feature hashing (default local/hash-384)
//	text-embedding-* | openai/<m>  OpenAI embeddings API
//	jina-* | jina/<m>              Jina AI embeddings API
//
// # Basic Usage
//
//	reg := embedder.NewRegistry(embedder.NewFactory(embedder.Config{}), embedder.NewCache(10000))
//	defer reg.Close()
//
//	vectors, err := reg.Embed(ctx, embedder.DefaultModel, []string{"connect to database"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	embedder.NormalizeRows(vectors)
//
// # Model Loading
//
// A Registry loads each model at most once, even under concurrent use, and
// keeps it until Close. Failed loads are not remembered, so a later call
// retries.
//
// # Caching
//
// The optional Cache is an LRU keyed by the SHA-256 of model and text.
// Vectors are copied on the way in and out.
//
// # Errors
//
// Remote providers retry transport failures, rate limiting and 5xx
// responses with exponential backoff (3 attempts, 100ms to 5s). Other 4xx
// responses fail on the first attempt. The last error is wrapped in
// ErrProviderFailed. Inputs are validated before any provider is called:
// an empty batch is ErrEmptyInput and an empty string is ErrInvalidInput.
package embedder
