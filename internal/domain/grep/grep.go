// Package grep holds the value types for bounded content search within
// catalog documents.
package grep

import "fmt"

// Defaults and limits for content search.
const (
	DefaultContextChars     = 200
	DefaultMaxMatchesPerDoc = 5
	MaxContextChars         = 16000
)

// Request is a validated content-search query over a batch of documents.
type Request struct {
	refs             []string
	pattern          string
	contextChars     int
	maxMatchesPerDoc int
	startOffset      int
}

// NewRequest validates and normalizes content-search parameters.
// An empty ref list is allowed (the search is a no-op); an empty pattern
// is not. Defaults: contextChars=200, maxMatchesPerDoc=5.
func NewRequest(
	refs []string, pattern string,
	contextChars, maxMatchesPerDoc, startOffset int,
) (Request, error) {
	if pattern == "" {
		return Request{}, fmt.Errorf("pattern is required")
	}
	if startOffset < 0 {
		return Request{}, fmt.Errorf("start offset must not be negative")
	}
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}
	if contextChars > MaxContextChars {
		contextChars = MaxContextChars
	}
	if maxMatchesPerDoc <= 0 {
		maxMatchesPerDoc = DefaultMaxMatchesPerDoc
	}

	return Request{
		refs:             refs,
		pattern:          pattern,
		contextChars:     contextChars,
		maxMatchesPerDoc: maxMatchesPerDoc,
		startOffset:      startOffset,
	}, nil
}

// Refs returns the document references to search within.
func (r *Request) Refs() []string { return r.refs }

// Pattern returns the regex pattern.
func (r *Request) Pattern() string { return r.pattern }

// ContextChars returns the excerpt context width in bytes.
func (r *Request) ContextChars() int { return r.contextChars }

// MaxMatchesPerDoc returns the excerpt materialization bound per document.
func (r *Request) MaxMatchesPerDoc() int { return r.maxMatchesPerDoc }

// StartOffset returns the byte offset to start searching from.
func (r *Request) StartOffset() int { return r.startOffset }

// Document is a fetched document eligible for content search.
type Document struct {
	Ref   string
	Title string
	Text  string
}

// Excerpt is a single match with surrounding context. Position is a byte
// offset into the full, untruncated document text.
type Excerpt struct {
	Text     string
	Position int
}

// DocResult holds the matches found within one document. TotalMatches is
// the unbounded true count; Matches is capped at maxMatchesPerDoc.
// ContentLength is set only when the request used a start offset, so the
// caller can tell whether more content exists beyond the current window.
type DocResult struct {
	Ref           string
	Title         string
	Matches       []Excerpt
	TotalMatches  int
	ContentLength *int
}

// Summary aggregates content-search results across all input documents.
// Documents without matches are excluded from Docs.
type Summary struct {
	Docs            []DocResult
	TotalMatches    int
	DocsWithMatches int
}
