// Package fusion merges lexical and semantic retrieval into one
// deduplicated, paginated ranking.
package fusion

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/request"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
)

// FetchCap bounds how many hits each retrieval branch fetches. Pages
// beyond the cap cannot be served consistently and are reported via
// Page.FetchLimitReached.
const FetchCap = 100

// Service is the retrieval fusion engine.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a fusion service.
func New(backend Backend, logger *zap.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Fuse runs the lexical branch and, when a semantic query is present, the
// semantic branch, then merges, deduplicates, and paginates. The lexical
// branch is load-bearing: its failure aborts the call. Semantic failure
// falls back to lexical-only.
func (s *Service) Fuse(ctx context.Context, req *request.Request) (*result.Page, error) {
	fetchCount := req.PageOffset() + req.PageSize()
	fetchLimitReached := fetchCount > FetchCap
	if fetchCount > FetchCap {
		fetchCount = FetchCap
	}

	lex, err := s.backend.Query(
		ctx, strategy.Lexical, req.LexicalQuery(), req.Filters(), fetchCount, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackend, err)
	}

	semHits := s.semanticHits(ctx, req, fetchCount, len(lex.Hits))

	merged := merge(lex.Hits, semHits)

	return &result.Page{
		Hits:              slicePage(merged, req.PageOffset(), req.PageSize()),
		TotalMerged:       len(merged),
		Facets:            lex.Facets,
		FetchLimitReached: fetchLimitReached,
	}, nil
}

// semanticHits runs the semantic branch. Both branch failure and a
// structurally empty semantic result alongside non-empty lexical results
// degrade to lexical-only. Cancellation of the surrounding call is never
// swallowed here; it surfaces on the next backend call or in the caller.
func (s *Service) semanticHits(
	ctx context.Context, req *request.Request, fetchCount, lexicalCount int,
) []result.Hit {
	if !req.HasSemantic() {
		return nil
	}

	sem, err := s.backend.Query(
		ctx, strategy.Semantic, req.SemanticQuery(), req.Filters(), fetchCount, 0)
	if err != nil {
		s.logger.Warn("semantic retrieval failed, falling back to lexical only",
			zap.String("query", req.SemanticQuery()),
			zap.Error(err))
		return nil
	}

	if len(sem.Hits) == 0 && lexicalCount > 0 {
		s.logger.Warn("semantic branch returned no hits while lexical did, ignoring semantic branch",
			zap.String("query", req.SemanticQuery()),
			zap.Int("lexical_hits", lexicalCount))
		return nil
	}

	return sem.Hits
}

func slicePage(hits []result.Hit, offset, size int) []result.Hit {
	if offset >= len(hits) {
		return nil
	}
	end := offset + size
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}
