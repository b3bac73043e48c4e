package index

import (
	"math"
	"sort"
	"strings"

	"github.com/poiesic/promptsearch/analysis"
	"github.com/poiesic/promptsearch/core"
)

// Params holds the BM25 tuning constants. K1 controls term-frequency
// saturation, B the strength of document-length normalization.
type Params struct {
	K1 float64
	B  float64
}

// DefaultParams are the conventional BM25 constants.
var DefaultParams = Params{K1: 1.2, B: 0.75}

// Field names used for match highlighting, in discovery order.
const (
	FieldId          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldContent     = "content"
)

// highlightFields is the fixed field order for MatchedFields.
var highlightFields = []string{FieldId, FieldTitle, FieldDescription, FieldTags, FieldContent}

// Hit is a scored document reference returned by Search.
type Hit struct {
	Id    string
	Score float64
}

// Index is an immutable BM25 inverted index over a prompt corpus.
type Index struct {
	params      Params
	postings    map[string]map[string]int      // term -> document id -> term frequency
	docLengths  map[string]int                 // document id -> token count
	docOrder    map[string]int                 // document id -> corpus insertion position
	fieldTokens map[string]map[string]tokenSet // document id -> field -> token set
	totalDocs   int
	avgdl       float64
}

type tokenSet map[string]struct{}

func newTokenSet(tokens []string) tokenSet {
	set := make(tokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Build constructs an index from a corpus snapshot. Title, description,
// tags, and content all contribute to a document's term frequencies; the
// id participates only in highlighting. Building twice from the same
// corpus produces indexes with identical scoring behavior.
func Build(prompts []*core.Prompt, params Params) *Index {
	idx := &Index{
		params:      params,
		postings:    make(map[string]map[string]int),
		docLengths:  make(map[string]int, len(prompts)),
		docOrder:    make(map[string]int, len(prompts)),
		fieldTokens: make(map[string]map[string]tokenSet, len(prompts)),
	}

	var totalTokens int
	for i, prompt := range prompts {
		titleTokens := analysis.Tokenize(prompt.Title)
		descTokens := analysis.Tokenize(prompt.Description)
		tagTokens := analysis.Tokenize(strings.Join(prompt.Tags, " "))
		contentTokens := analysis.Tokenize(prompt.Content)

		length := len(titleTokens) + len(descTokens) + len(tagTokens) + len(contentTokens)
		idx.docLengths[prompt.Id] = length
		idx.docOrder[prompt.Id] = i
		totalTokens += length

		for _, tokens := range [][]string{titleTokens, descTokens, tagTokens, contentTokens} {
			for _, term := range tokens {
				docs, ok := idx.postings[term]
				if !ok {
					docs = make(map[string]int)
					idx.postings[term] = docs
				}
				docs[prompt.Id]++
			}
		}

		idx.fieldTokens[prompt.Id] = map[string]tokenSet{
			FieldId:          newTokenSet(analysis.Tokenize(prompt.Id)),
			FieldTitle:       newTokenSet(titleTokens),
			FieldDescription: newTokenSet(descTokens),
			FieldTags:        newTokenSet(tagTokens),
			FieldContent:     newTokenSet(contentTokens),
		}
	}

	idx.totalDocs = len(prompts)
	if idx.totalDocs > 0 {
		idx.avgdl = float64(totalTokens) / float64(idx.totalDocs)
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	return idx.totalDocs
}

// AvgDocLength returns the average document length fixed at build time.
func (idx *Index) AvgDocLength() float64 {
	return idx.avgdl
}

// IDF returns the inverse document frequency weight for a term, using the
// +1 smoothed variant so the result is always positive. Unknown terms
// score zero.
func (idx *Index) IDF(term string) float64 {
	docs, ok := idx.postings[term]
	if !ok {
		return 0
	}
	n := float64(len(docs))
	N := float64(idx.totalDocs)
	return math.Log((N-n+0.5)/(n+0.5) + 1)
}

// Search scores every document against the query tokens and returns all
// documents with a nonzero score, sorted by score descending. Ties break
// by corpus insertion order. Terms absent from the index contribute
// nothing. An empty query yields no hits. The result is never truncated;
// callers slice after filtering.
func (idx *Index) Search(queryTokens []string) []Hit {
	if len(queryTokens) == 0 || idx.totalDocs == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, term := range queryTokens {
		docs, ok := idx.postings[term]
		if !ok {
			continue
		}
		idf := idx.IDF(term)
		for id, tf := range docs {
			f := float64(tf)
			length := float64(idx.docLengths[id])
			denom := f + idx.params.K1*(1-idx.params.B+idx.params.B*length/idx.avgdl)
			scores[id] += idf * f * (idx.params.K1 + 1) / denom
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, score := range scores {
		if score > 0 {
			hits = append(hits, Hit{Id: id, Score: score})
		}
	}

	// Order by insertion position first so the score sort is stable
	// across runs despite map iteration order.
	sort.Slice(hits, func(i, j int) bool {
		return idx.docOrder[hits[i].Id] < idx.docOrder[hits[j].Id]
	})
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits
}

// MatchedFields reports which fields of the given document contain at
// least one of the query tokens. Field names appear in discovery order
// (id, title, description, tags, content), deduplicated. Unknown
// documents yield nil.
func (idx *Index) MatchedFields(id string, queryTokens []string) []string {
	fields, ok := idx.fieldTokens[id]
	if !ok {
		return nil
	}

	var matched []string
	for _, field := range highlightFields {
		set := fields[field]
		for _, term := range queryTokens {
			if _, ok := set[term]; ok {
				matched = append(matched, field)
				break
			}
		}
	}
	return matched
}
