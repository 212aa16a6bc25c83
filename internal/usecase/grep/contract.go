package grep

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/domain/grep"
)

// ContentBackend fetches document bodies in one batched call. The
// returned slice corresponds positionally to refs; unknown refs come back
// with empty text.
type ContentBackend interface {
	FetchContents(ctx context.Context, refs []string) ([]grep.Document, error)
}
