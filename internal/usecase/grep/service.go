// Package grep scans catalog document text for a regex pattern with
// bounded excerpt materialization.
package grep

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/grep"
)

// ellipsis marks a clipped excerpt bound.
const ellipsis = "..."

// Service is the bounded content-search engine.
type Service struct {
	backend ContentBackend
	logger  *zap.Logger
}

// New creates a content-search service.
func New(backend ContentBackend, logger *zap.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Grep fetches the requested documents in one batch and scans each for
// the pattern. Matches are counted without bound; at most
// MaxMatchesPerDoc excerpts per document are materialized. A pattern that
// does not compile is a validation error, not a backend failure.
func (s *Service) Grep(ctx context.Context, req *grep.Request) (*grep.Summary, error) {
	if len(req.Refs()) == 0 {
		return &grep.Summary{}, nil
	}

	re, err := regexp.Compile(req.Pattern())
	if err != nil {
		return nil, fmt.Errorf("%w: Invalid regex pattern: %v", domain.ErrValidation, err)
	}

	docs, err := s.backend.FetchContents(ctx, req.Refs())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}

	summary := &grep.Summary{}
	for _, doc := range docs {
		res, ok := scanDocument(re, doc, req)
		if !ok {
			continue
		}
		summary.Docs = append(summary.Docs, res)
		summary.TotalMatches += res.TotalMatches
		summary.DocsWithMatches++
	}

	return summary, nil
}

// scanDocument scans one document. Reports false when the document
// contributes no matches.
func scanDocument(re *regexp.Regexp, doc grep.Document, req *grep.Request) (grep.DocResult, bool) {
	if doc.Text == "" || req.StartOffset() >= len(doc.Text) {
		return grep.DocResult{}, false
	}

	view := doc.Text[req.StartOffset():]

	res := grep.DocResult{Ref: doc.Ref, Title: doc.Title}

	begin := 0
	for begin <= len(view) {
		loc := re.FindStringIndex(view[begin:])
		if loc == nil {
			break
		}
		matchStart := begin + loc[0]
		matchEnd := begin + loc[1]

		res.TotalMatches++
		if len(res.Matches) < req.MaxMatchesPerDoc() {
			res.Matches = append(res.Matches, excerpt(view, matchStart, matchEnd,
				req.ContextChars(), req.StartOffset()))
		}

		if matchEnd == matchStart {
			// Empty match: advance one byte to guarantee progress.
			begin = matchEnd + 1
		} else {
			begin = matchEnd
		}
	}

	if res.TotalMatches == 0 {
		return grep.DocResult{}, false
	}

	if req.StartOffset() > 0 {
		fullLength := len(doc.Text)
		res.ContentLength = &fullLength
	}

	return res, true
}

// excerpt builds the bounded context window around one match. Position is
// reported in the coordinate space of the original, untruncated document.
func excerpt(view string, matchStart, matchEnd, contextChars, startOffset int) grep.Excerpt {
	lo := matchStart - contextChars
	clippedLeft := lo > 0
	if lo < 0 {
		lo = 0
	}
	hi := matchEnd + contextChars
	clippedRight := hi < len(view)
	if hi > len(view) {
		hi = len(view)
	}

	text := view[lo:hi]
	if clippedLeft {
		text = ellipsis + text
	}
	if clippedRight {
		text += ellipsis
	}

	return grep.Excerpt{
		Text:     text,
		Position: matchStart + startOffset,
	}
}
