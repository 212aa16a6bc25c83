// Package search implements the retrieval backend for the fusion engine
// on top of the catalog store.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kailas-cloud/catalogmcp/internal/db"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
)

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// embedder turns query text into a vector for the semantic branch.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// returnFields are the entity snapshot fields carried into hit payloads.
var returnFields = []string{
	"urn", "name", "entity_type", "platform", "domain",
	"description", "tags", "owners", "glossary_terms",
}

// facetFields are aggregated over the lexical result set.
var facetFields = []string{"entity_type", "platform", "domain"}

// Repo implements usecase/fusion.Backend over one FT index.
type Repo struct {
	store     store
	embedder  embedder
	indexName string
	keyPrefix string
}

// New creates a retrieval backend for the given index.
func New(s store, e embedder, keyPrefix, indexName string) *Repo {
	return &Repo{
		store:     s,
		embedder:  e,
		indexName: indexName,
		keyPrefix: keyPrefix,
	}
}

// Query runs one retrieval strategy and returns its raw result set.
// Facets are populated for the lexical strategy only.
func (r *Repo) Query(
	ctx context.Context, strat strategy.Strategy, text string,
	filters filter.Expression, count, start int,
) (result.Set, error) {
	switch strat {
	case strategy.Lexical:
		return r.lexical(ctx, text, filters, count, start)
	case strategy.Semantic:
		return r.semantic(ctx, text, filters, count)
	default:
		return result.Set{}, fmt.Errorf("unsupported retrieval strategy %q", strat)
	}
}

func (r *Repo) lexical(
	ctx context.Context, query string, filters filter.Expression, count, start int,
) (result.Set, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName,
		Query:        query,
		Filters:      filters,
		Count:        count,
		Start:        start,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return result.Set{}, fmt.Errorf("lexical search %s: %w", r.indexName, err)
	}

	hits := r.toHits(sr, strategy.Lexical)
	return result.Set{
		Hits:   hits,
		Total:  sr.Total,
		Facets: deriveFacets(sr.Entries),
	}, nil
}

func (r *Repo) semantic(
	ctx context.Context, query string, filters filter.Expression, count int,
) (result.Set, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return result.Set{}, fmt.Errorf("embed query: %w", err)
	}

	q := &db.KNNQuery{
		IndexName:    r.indexName,
		Filters:      filters,
		Vector:       vec,
		K:            count,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return result.Set{}, fmt.Errorf("semantic search %s: %w", r.indexName, err)
	}

	return result.Set{
		Hits:  r.toHits(sr, strategy.Semantic),
		Total: sr.Total,
	}, nil
}

func (r *Repo) toHits(sr *db.SearchResult, source strategy.Strategy) []result.Hit {
	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		ref := entry.Fields["urn"]
		if ref == "" {
			ref = entry.Key
		}

		payload, err := json.Marshal(entry.Fields)
		if err != nil {
			payload = nil
		}

		hits = append(hits, result.NewHit(ref, entry.Score, source, payload))
	}
	return hits
}

// deriveFacets aggregates facet field values over the fetched lexical
// entries. Buckets are sorted by count descending, then value.
func deriveFacets(entries []db.SearchEntry) []result.Facet {
	facets := make([]result.Facet, 0, len(facetFields))

	for _, field := range facetFields {
		counts := make(map[string]int)
		for _, entry := range entries {
			if v := entry.Fields[field]; v != "" {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			continue
		}

		values := make([]result.FacetValue, 0, len(counts))
		for v, c := range counts {
			values = append(values, result.FacetValue{Value: v, Count: c})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].Count != values[j].Count {
				return values[i].Count > values[j].Count
			}
			return values[i].Value < values[j].Value
		})

		facets = append(facets, result.Facet{Field: field, Values: values})
	}

	return facets
}
