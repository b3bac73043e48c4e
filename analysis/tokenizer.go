package analysis

import "strings"

// Tokenize breaks text into lowercased tokens split on any character
// outside [a-z0-9]. Runs of separators collapse into a single split point
// and zero-length tokens are dropped. Duplicates are preserved in order;
// term frequency matters for BM25. Stop words are kept, their IDF weight
// suppresses them naturally.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	tokens := make([]string, 0, len(lowered)/5)
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
