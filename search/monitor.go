package search

import (
	"time"

	"github.com/poiesic/promptsearch/core"
)

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps during a query.
// Implementations must be safe for concurrent use; the engine may run
// many queries against the same monitor.
type SearchMonitor interface {
	Start(query string)
	AfterTokenize(tokens []string)
	AfterExpansion(tokens []string)
	AfterLexicalSearch(candidates int)
	AfterRerank(candidates int)
	AfterFilter(remaining int)
	Finish(results []*core.SearchResult, elapsed time.Duration)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                    {}
func (n *noopMonitor) AfterTokenize(_ []string)                          {}
func (n *noopMonitor) AfterExpansion(_ []string)                         {}
func (n *noopMonitor) AfterLexicalSearch(_ int)                          {}
func (n *noopMonitor) AfterRerank(_ int)                                 {}
func (n *noopMonitor) AfterFilter(_ int)                                 {}
func (n *noopMonitor) Finish(_ []*core.SearchResult, _ time.Duration)    {}
