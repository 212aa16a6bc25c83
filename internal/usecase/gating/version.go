// Package gating hides tools the connected backend cannot serve, based
// on version compatibility and catalog content.
package gating

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/cache"
	"github.com/kailas-cloud/catalogmcp/internal/domain/deployment"
	"github.com/kailas-cloud/catalogmcp/internal/domain/tool"
	"github.com/kailas-cloud/catalogmcp/internal/metrics"
)

// ProbeTTL bounds how long gate probe results are reused.
const ProbeTTL = 60 * time.Second

// probeCacheSize caps distinct backend endpoints tracked per process.
const probeCacheSize = 8

// VersionGate removes tools whose registered minimum backend version is
// not met by the connected deployment. Tools with no registered
// requirement always pass.
type VersionGate struct {
	probe        DeploymentProbe
	requirements map[string]deployment.Requirement
	cache        *cache.Cache[string, deployment.Info]
	logger       *zap.Logger
}

// NewVersionGate creates a version gate over the given requirement
// registry.
func NewVersionGate(
	probe DeploymentProbe,
	requirements map[string]deployment.Requirement,
	logger *zap.Logger,
) *VersionGate {
	return &VersionGate{
		probe:        probe,
		requirements: requirements,
		cache:        cache.New[string, deployment.Info](probeCacheSize, ProbeTTL),
		logger:       logger,
	}
}

// Filter returns the tools available on the connected deployment. A probe
// failure fails open: the input is returned unfiltered so a transiently
// unreachable backend never locks the agent out.
func (g *VersionGate) Filter(ctx context.Context, tools []tool.Descriptor) []tool.Descriptor {
	info, err := g.cache.GetOrCompute(g.probe.Endpoint(), func() (deployment.Info, error) {
		return g.probe.DeploymentInfo(ctx)
	})
	if err != nil {
		g.logger.Warn("deployment probe failed, version gate failing open",
			zap.String("endpoint", g.probe.Endpoint()),
			zap.Error(err))
		metrics.GateDecisionsTotal.WithLabelValues("version", "fail_open").Inc()
		return tools
	}

	out := make([]tool.Descriptor, 0, len(tools))
	for _, t := range tools {
		req, registered := g.requirements[t.Name]
		if !registered || req.SatisfiedBy(info) {
			out = append(out, t)
			continue
		}
		metrics.GateDecisionsTotal.WithLabelValues("version", "hidden").Inc()
		g.logger.Debug("tool hidden by version gate",
			zap.String("tool", t.Name),
			zap.Bool("hosted", info.Hosted),
			zap.String("version", info.Version.String()))
	}
	return out
}
