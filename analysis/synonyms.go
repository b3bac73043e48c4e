package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSynonyms is the built-in synonym table. Entries map a query term
// to related terms appended during expansion. Kept small on purpose; see
// the package documentation.
var DefaultSynonyms = map[string][]string{
	"code":     {"programming", "coding"},
	"coding":   {"code", "programming"},
	"write":    {"writing", "draft"},
	"writing":  {"write", "draft"},
	"bug":      {"error", "debug"},
	"debug":    {"bug", "fix"},
	"fast":     {"quick", "speed"},
	"speed":    {"fast", "performance"},
	"image":    {"picture", "photo"},
	"email":    {"mail", "message"},
	"summary":  {"summarize", "overview"},
	"seo":      {"search", "ranking"},
	"ai":       {"llm", "assistant"},
	"review":   {"feedback", "critique"},
	"test":     {"testing", "qa"},
	"plan":     {"planning", "roadmap"},
	"idea":     {"brainstorm", "concept"},
	"story":    {"narrative", "fiction"},
	"sell":     {"sales", "pitch"},
	"teach":    {"explain", "lesson"},
}

// Expander expands query tokens with entries from a static synonym table.
type Expander struct {
	table map[string][]string
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithTable replaces the default synonym table.
// A nil table leaves the default in place.
func WithTable(table map[string][]string) ExpanderOption {
	return func(e *Expander) {
		if table != nil {
			e.table = table
		}
	}
}

// NewExpander creates an expander over DefaultSynonyms unless overridden.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{table: DefaultSynonyms}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the input tokens followed by any synonyms found for them.
// Duplicates are allowed: a synonym that repeats an existing token raises
// its effective frequency in the BM25 query, which is the intended
// amplification.
func (e *Expander) Expand(tokens []string) []string {
	if len(tokens) == 0 {
		return tokens
	}

	out := make([]string, len(tokens), len(tokens)*2)
	copy(out, tokens)
	for _, token := range tokens {
		out = append(out, e.table[token]...)
	}
	return out
}

// LoadSynonyms reads a synonym table from a YAML file mapping a term to a
// list of related terms.
func LoadSynonyms(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading synonym table: %w", err)
	}

	table := make(map[string][]string)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing synonym table: %w", err)
	}
	return table, nil
}
