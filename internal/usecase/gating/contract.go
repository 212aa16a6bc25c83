package gating

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/domain/deployment"
)

// DeploymentProbe reads the connected backend's deployment class and
// version. Endpoint identifies the backend for cache keying.
type DeploymentProbe interface {
	Endpoint() string
	DeploymentInfo(ctx context.Context) (deployment.Info, error)
}

// CatalogProbe reports how many document entities the catalog holds.
type CatalogProbe interface {
	Endpoint() string
	CountDocuments(ctx context.Context) (int, error)
}
