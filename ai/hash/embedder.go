package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/poiesic/promptsearch/ai"
	"github.com/poiesic/promptsearch/analysis"
)

const (
	defaultDimensions = 256
	minGramLength     = 3
	maxGramLength     = 4
)

// Embedder is a deterministic, non-learned embedding backend. It folds
// overlapping character n-grams into a fixed-length vector: each gram
// hashes to a bucket index and a +1/-1 sign, accumulated and then
// normalized to unit length. Two texts sharing more overlapping
// substrings come out more similar than two disjoint texts, which makes
// the vector a cheap lexical-overlap proxy rather than true semantics.
//
// Embedding never fails; an Embedder is safe for concurrent use.
type Embedder struct {
	dimensions int
}

var _ ai.Embedder = (*Embedder)(nil)

// Option configures an Embedder.
type Option func(*Embedder)

// WithDimensions sets the vector length. Default is 256.
// Values below 1 are ignored.
func WithDimensions(n int) Option {
	return func(e *Embedder) {
		if n > 0 {
			e.dimensions = n
		}
	}
}

// New creates a hash embedder.
func New(opts ...Option) *Embedder {
	e := &Embedder{dimensions: defaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Dimensions returns the vector length produced by this embedder.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// EmbedText generates the n-gram hash vector for a single text. Text that
// normalizes to nothing yields the zero vector, which scores minimum
// similarity against any query.
func (e *Embedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)

	normalized := strings.Join(analysis.Tokenize(text), " ")
	runes := []rune(normalized)
	for n := minGramLength; n <= maxGramLength; n++ {
		for i := 0; i+n <= len(runes); i++ {
			h := fnv.New64a()
			h.Write([]byte(string(runes[i : i+n])))
			sum := h.Sum64()
			bucket := int(sum % uint64(e.dimensions))
			if sum>>63 == 0 {
				vector[bucket]++
			} else {
				vector[bucket]--
			}
		}
	}

	return normalize(vector), nil
}

// EmbedTexts generates vectors for a batch of texts, in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// normalize scales a vector to unit length in place.
// The zero vector is returned unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val) * float64(val)
	}
	if sum == 0 {
		return v
	}
	magnitude := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= magnitude
	}
	return v
}
