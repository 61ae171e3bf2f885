package search

import "github.com/poiesic/scholarkb/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterSemanticSearch(matches []*core.ScoredChunk)
	AfterKeywordSearch(matches []*core.ScoredChunk)
	Finish(results []*core.FusedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.ScoredChunk) {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.ScoredChunk)  {}
func (n *noopMonitor) Finish(_ []*core.FusedResult)            {}
