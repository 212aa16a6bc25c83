// Package content fetches document bodies for content search.
package content

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/domain/grep"
)

// entityKeyPrefix is the hash key namespace for entity records, relative
// to the store key prefix.
const entityKeyPrefix = "entity:"

// store is the consumer interface for batched hash reads (ISP).
type store interface {
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
}

// Repo implements usecase/grep.ContentBackend.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a content repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// FetchContents fetches the documents for the given refs in one batched
// round-trip. Refs that resolve to no record are returned with empty text
// so positional correspondence with the input is preserved.
func (r *Repo) FetchContents(ctx context.Context, refs []string) ([]grep.Document, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = r.keyPrefix + entityKeyPrefix + ref
	}

	records, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch contents: %w", err)
	}

	docs := make([]grep.Document, len(refs))
	for i, fields := range records {
		docs[i] = grep.Document{
			Ref:   refs[i],
			Title: fields["name"],
			Text:  fields["content"],
		}
	}

	return docs, nil
}
