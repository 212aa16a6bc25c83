package db

import (
	"context"
	"time"

	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
)

// Store is the catalog store facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store.
type Store interface {
	Pinger
	Searcher
	HashStore
	InfoProvider
	// Endpoint identifies the connected backend, used as the cache key
	// for deployment and catalog probes.
	Endpoint() string
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based entity record operations.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// InfoProvider reads deployment metadata published by the backend.
type InfoProvider interface {
	DeploymentMeta(ctx context.Context) (DeploymentMeta, error)
}

// DeploymentMeta is the raw deployment record stored by the backend.
type DeploymentMeta struct {
	// Mode is "hosted" or "self-managed".
	Mode    string
	Version string
}

// TextQuery is the input for BM25 full-text search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filters      filter.Expression
	Count        int
	Start        int
	ReturnFields []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
