package result

import (
	"encoding/json"

	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
)

// Hit is a single search hit. The payload is the backend's entity
// snapshot, carried opaquely to the tool boundary.
type Hit struct {
	ref     string
	score   float64
	source  strategy.Strategy
	payload json.RawMessage
}

// NewHit creates a search hit.
func NewHit(ref string, score float64, source strategy.Strategy, payload json.RawMessage) Hit {
	return Hit{ref: ref, score: score, source: source, payload: payload}
}

// Ref returns the entity reference.
func (h *Hit) Ref() string { return h.ref }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Source returns the retrieval strategy that produced the hit.
func (h *Hit) Source() strategy.Strategy { return h.source }

// Payload returns the opaque entity snapshot.
func (h *Hit) Payload() json.RawMessage { return h.payload }

// WithSource returns a copy of the hit tagged with the given strategy.
// The merge step uses this to mark hits lexical, semantic, or both.
func (h Hit) WithSource(s strategy.Strategy) Hit {
	h.source = s
	return h
}

// FacetValue is one aggregation bucket of a facet.
type FacetValue struct {
	Value string
	Count int
}

// Facet is a per-field aggregation over the lexical result set, used by
// callers to iteratively refine filters.
type Facet struct {
	Field  string
	Values []FacetValue
}

// Set is the raw result of one retrieval strategy before merging.
type Set struct {
	Hits   []Hit
	Total  int
	Facets []Facet
}

// Page is one page of merged search results.
type Page struct {
	Hits        []Hit
	TotalMerged int
	Facets      []Facet
	// FetchLimitReached is set when pageOffset+pageSize exceeded the
	// fused fetch cap; deeper pages cannot be served consistently.
	FetchLimitReached bool
}
