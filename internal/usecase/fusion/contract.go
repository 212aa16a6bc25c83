package fusion

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
)

// Backend runs one retrieval strategy against the catalog. Facets are
// populated for the lexical strategy only.
type Backend interface {
	Query(
		ctx context.Context, strat strategy.Strategy, text string,
		filters filter.Expression, count, start int,
	) (result.Set, error)
}
