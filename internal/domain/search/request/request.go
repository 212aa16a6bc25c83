package request

import (
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
)

// Pagination limits for fused search.
const (
	DefaultPageSize = 10
	// MaxPageSize caps a single result page. Larger requests are clamped,
	// not rejected, so agent callers never have to retry on page size.
	MaxPageSize = 50
	// MaxQueryLength is the maximum allowed query length.
	MaxQueryLength = 4096
)

// Request is a validated fused-search query. The lexical query is
// load-bearing; the semantic query is optional and enables hybrid retrieval.
type Request struct {
	lexicalQuery  string
	semanticQuery string
	filters       filter.Expression
	pageOffset    int
	pageSize      int
}

// New validates and normalizes fused-search parameters.
// Defaults: pageSize=10. pageSize is clamped to MaxPageSize before use.
func New(
	lexicalQuery, semanticQuery string,
	filters filter.Expression,
	pageOffset, pageSize int,
) (Request, error) {
	if lexicalQuery == "" {
		return Request{}, fmt.Errorf("lexical query is required")
	}
	if len(lexicalQuery) > MaxQueryLength {
		return Request{}, fmt.Errorf("lexical query too long (max %d chars)", MaxQueryLength)
	}
	if len(semanticQuery) > MaxQueryLength {
		return Request{}, fmt.Errorf("semantic query too long (max %d chars)", MaxQueryLength)
	}
	if pageOffset < 0 {
		return Request{}, fmt.Errorf("page offset must not be negative")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Request{
		lexicalQuery:  lexicalQuery,
		semanticQuery: semanticQuery,
		filters:       filters,
		pageOffset:    pageOffset,
		pageSize:      pageSize,
	}, nil
}

// LexicalQuery returns the full-text query.
func (r *Request) LexicalQuery() string { return r.lexicalQuery }

// SemanticQuery returns the embedding query ("" when lexical-only).
func (r *Request) SemanticQuery() string { return r.semanticQuery }

// HasSemantic reports whether a semantic query was supplied.
func (r *Request) HasSemantic() bool { return r.semanticQuery != "" }

// Filters returns the metadata filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }

// PageOffset returns the pagination start position in the merged list.
func (r *Request) PageOffset() int { return r.pageOffset }

// PageSize returns the clamped page size.
func (r *Request) PageSize() int { return r.pageSize }
