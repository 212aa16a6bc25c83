package gating

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/cache"
	"github.com/kailas-cloud/catalogmcp/internal/domain/tool"
	"github.com/kailas-cloud/catalogmcp/internal/metrics"
)

// Document tool names subject to the content existence gate.
const (
	ToolSearchDocuments = "search_documents"
	ToolGrepDocuments   = "grep_documents"
)

func isDocumentTool(name string) bool {
	return name == ToolSearchDocuments || name == ToolGrepDocuments
}

// ContentExistenceGate hides the document tools when they are statically
// disabled or the catalog holds no documents.
type ContentExistenceGate struct {
	probe    CatalogProbe
	disabled bool
	cache    *cache.Cache[string, bool]
	logger   *zap.Logger
}

// NewContentExistenceGate creates a content existence gate. disabled
// statically removes the document tools regardless of catalog state.
func NewContentExistenceGate(probe CatalogProbe, disabled bool, logger *zap.Logger) *ContentExistenceGate {
	return &ContentExistenceGate{
		probe:    probe,
		disabled: disabled,
		cache:    cache.New[string, bool](probeCacheSize, ProbeTTL),
		logger:   logger,
	}
}

// Filter returns the tools with the document tools removed when they
// cannot serve. Unlike the version gate, a probe failure fails closed:
// a failing existence probe usually means the document schema is
// unsupported on this deployment, so the tools are hidden.
func (g *ContentExistenceGate) Filter(ctx context.Context, tools []tool.Descriptor) []tool.Descriptor {
	if !containsDocumentTool(tools) {
		return tools
	}

	if g.disabled {
		metrics.GateDecisionsTotal.WithLabelValues("content", "disabled").Inc()
		return withoutDocumentTools(tools)
	}

	hasDocs, err := g.cache.GetOrCompute(g.probe.Endpoint(), func() (bool, error) {
		count, err := g.probe.CountDocuments(ctx)
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		g.logger.Warn("catalog probe failed, content gate failing closed",
			zap.String("endpoint", g.probe.Endpoint()),
			zap.Error(err))
		metrics.GateDecisionsTotal.WithLabelValues("content", "fail_closed").Inc()
		return withoutDocumentTools(tools)
	}

	if !hasDocs {
		metrics.GateDecisionsTotal.WithLabelValues("content", "no_documents").Inc()
		return withoutDocumentTools(tools)
	}

	return tools
}

func containsDocumentTool(tools []tool.Descriptor) bool {
	for _, t := range tools {
		if isDocumentTool(t.Name) {
			return true
		}
	}
	return false
}

func withoutDocumentTools(tools []tool.Descriptor) []tool.Descriptor {
	out := make([]tool.Descriptor, 0, len(tools))
	for _, t := range tools {
		if !isDocumentTool(t.Name) {
			out = append(out, t)
		}
	}
	return out
}
