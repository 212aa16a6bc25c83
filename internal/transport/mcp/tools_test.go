package mcp

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/filter"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/strategy"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/fusion"
)

// fixedBackend serves canned hits for the fusion service.
type fixedBackend struct {
	lexical  []result.Hit
	semantic []result.Hit
}

func (b *fixedBackend) Query(
	ctx context.Context, strat strategy.Strategy, text string,
	filters filter.Expression, count, start int,
) (result.Set, error) {
	if strat == strategy.Semantic {
		return result.Set{Hits: b.semantic, Total: len(b.semantic)}, nil
	}
	return result.Set{Hits: b.lexical, Total: len(b.lexical)}, nil
}

func TestSearchHandler(t *testing.T) {
	backend := &fixedBackend{
		lexical: []result.Hit{
			result.NewHit("urn:li:dataset:orders", 2.1, strategy.Lexical, []byte(`{"name":"orders"}`)),
		},
		semantic: []result.Hit{
			result.NewHit("urn:li:dataset:orders", 0.9, strategy.Semantic, []byte(`{"name":"orders"}`)),
		},
	}
	handler := searchHandler(fusion.New(backend, zap.NewNop()))

	payload, err := handler(context.Background(), map[string]any{
		"query":          "orders",
		"semantic_query": "order tables",
		"page_size":      float64(5),
		"filters":        map[string]any{"platform": []any{"snowflake"}},
	})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	out := payload.(map[string]any)
	hits := out["hits"].([]map[string]any)
	if len(hits) != 1 || hits[0]["urn"] != "urn:li:dataset:orders" {
		t.Fatalf("hits = %v", hits)
	}
	if hits[0]["source"] != "both" {
		t.Errorf("source = %v", hits[0]["source"])
	}
	if out["total_merged"] != 1 {
		t.Errorf("total_merged = %v", out["total_merged"])
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	handler := searchHandler(fusion.New(&fixedBackend{}, zap.NewNop()))

	_, err := handler(context.Background(), map[string]any{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIntArg(t *testing.T) {
	args := map[string]any{"n": float64(42), "bad": "x"}

	if n, err := intArg(args, "n", 0); err != nil || n != 42 {
		t.Errorf("intArg(n) = %d, %v", n, err)
	}
	if n, err := intArg(args, "missing", 7); err != nil || n != 7 {
		t.Errorf("intArg(missing) = %d, %v", n, err)
	}
	if _, err := intArg(args, "bad", 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("intArg(bad) err = %v", err)
	}
}

func TestStringSliceArg(t *testing.T) {
	args := map[string]any{
		"refs":  []any{"a", "b"},
		"mixed": []any{"a", 3},
	}

	refs, err := stringSliceArg(args, "refs", true)
	if err != nil || len(refs) != 2 {
		t.Errorf("stringSliceArg(refs) = %v, %v", refs, err)
	}
	if _, err := stringSliceArg(args, "mixed", true); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("stringSliceArg(mixed) err = %v", err)
	}
	if _, err := stringSliceArg(args, "missing", true); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("stringSliceArg(missing required) err = %v", err)
	}
	if got, err := stringSliceArg(args, "missing", false); err != nil || got != nil {
		t.Errorf("stringSliceArg(missing optional) = %v, %v", got, err)
	}
}

func TestFiltersArg(t *testing.T) {
	expr, err := filtersArg(map[string]any{
		"filters": map[string]any{"platform": []any{"snowflake", "postgres"}},
	}, "filters")
	if err != nil {
		t.Fatalf("filtersArg: %v", err)
	}
	conds := expr.Conditions()
	if len(conds) != 1 || conds[0].Field() != "platform" || len(conds[0].Values()) != 2 {
		t.Errorf("conditions = %+v", conds)
	}

	if _, err := filtersArg(map[string]any{"filters": "nope"}, "filters"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	empty, err := filtersArg(map[string]any{}, "filters")
	if err != nil || !empty.IsEmpty() {
		t.Errorf("empty filters = %+v, %v", empty, err)
	}
}
