package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// IDFromContent generates a deterministic prompt ID from text content using
// BLAKE2b hashing. Identical content always produces the same ID.
func IDFromContent(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Category classifies a prompt into one of a closed set of topics.
type Category string

const (
	CategoryWriting      Category = "writing"
	CategoryCoding       Category = "coding"
	CategoryMarketing    Category = "marketing"
	CategoryProductivity Category = "productivity"
	CategoryEducation    Category = "education"
	CategoryCreative     Category = "creative"
	CategoryBusiness     Category = "business"
	CategoryAnalysis     Category = "analysis"
)

// Categories lists every valid prompt category.
var Categories = []Category{
	CategoryWriting,
	CategoryCoding,
	CategoryMarketing,
	CategoryProductivity,
	CategoryEducation,
	CategoryCreative,
	CategoryBusiness,
	CategoryAnalysis,
}

// Prompt is the unit indexed and returned by search. Prompts are supplied
// as an immutable corpus snapshot; the index never mutates one.
type Prompt struct {
	Id          string
	Title       string
	Description string
	Content     string
	Category    Category
	Tags        []string
	Vector      []float32 // Embedding for reranking (populated by the ingestion pipeline)
}

// RankedResult is an intermediate scored candidate handed to the reranker.
// Text is the field concatenation used for the semantic pass. Vector, when
// present, is the prompt's precomputed embedding and short-circuits
// on-the-fly embedding.
type RankedResult struct {
	Id     string
	Score  float64
	Text   string
	Vector []float32
}

// SearchResult is a search hit returned to callers. MatchedFields names
// the prompt fields that contained at least one query term, ordered by
// discovery and deduplicated.
type SearchResult struct {
	Prompt        *Prompt
	Score         float64
	MatchedFields []string
}
