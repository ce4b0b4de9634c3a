package embedder

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
)

// Feature weights for the local embedder
const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// LocalProvider embeds text offline by hashing word and character trigram
// features into a fixed number of signed buckets. Texts sharing words or
// word fragments land close together; it has no notion of synonyms.
type LocalProvider struct {
	model string
	dim   int
}

// NewLocalProvider creates a local embedder from a name like "local/hash-384"
func NewLocalProvider(model string) (*LocalProvider, error) {
	if !strings.HasPrefix(model, LocalPrefix) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
	}
	dim, err := strconv.Atoi(strings.TrimPrefix(model, LocalPrefix))
	if err != nil || dim < MinLocalDimension || dim > MaxLocalDimension {
		return nil, fmt.Errorf("%w: %s (dimension must be %d-%d)",
			ErrUnsupportedModel, model, MinLocalDimension, MaxLocalDimension)
	}
	return &LocalProvider{model: model, dim: dim}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ValidateBatch(texts); err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = l.embed(text)
	}
	return out, nil
}

func (l *LocalProvider) embed(text string) []float32 {
	vec := make([]float32, l.dim)

	words := tokenize(text)
	if len(words) == 0 {
		// Punctuation-only lines still get a stable, non-zero vector
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			words = []string{trimmed}
		}
	}

	for _, word := range words {
		l.add(vec, "w:"+word, wordWeight)
		runes := []rune("^" + word + "$")
		for i := 0; i+3 <= len(runes); i++ {
			l.add(vec, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}
	return vec
}

func (l *LocalProvider) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(l.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func (l *LocalProvider) Dimension() int {
	return l.dim
}

func (l *LocalProvider) Provider() string {
	return ProviderLocal
}

func (l *LocalProvider) Model() string {
	return l.model
}

func (l *LocalProvider) Close() error {
	return nil
}
