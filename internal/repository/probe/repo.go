// Package probe reads backend deployment metadata and catalog shape,
// feeding the tool gating layers.
package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/db"
	"github.com/kailas-cloud/catalogmcp/internal/domain/deployment"
)

// hostedMode is the deployment meta value marking a hosted backend.
const hostedMode = "hosted"

// store is the consumer interface for probe operations (ISP).
type store interface {
	DeploymentMeta(ctx context.Context) (db.DeploymentMeta, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	Endpoint() string
}

// Repo implements usecase/gating.DeploymentProbe and CatalogProbe.
type Repo struct {
	store         store
	documentIndex string
}

// New creates a probe repository. documentIndex is the FT index holding
// document entities.
func New(s store, documentIndex string) *Repo {
	return &Repo{store: s, documentIndex: documentIndex}
}

// Endpoint identifies the probed backend for cache keying.
func (r *Repo) Endpoint() string {
	return r.store.Endpoint()
}

// DeploymentInfo reads and parses the backend deployment record.
func (r *Repo) DeploymentInfo(ctx context.Context) (deployment.Info, error) {
	meta, err := r.store.DeploymentMeta(ctx)
	if err != nil {
		return deployment.Info{}, fmt.Errorf("deployment meta: %w", err)
	}

	version, err := deployment.ParseVersion(meta.Version)
	if err != nil {
		return deployment.Info{}, fmt.Errorf("deployment version: %w", err)
	}

	return deployment.Info{
		Hosted:  meta.Mode == hostedMode,
		Version: version,
	}, nil
}

// CountDocuments returns the number of document entities in the catalog.
// A missing index counts as an empty catalog, not an error.
func (r *Repo) CountDocuments(ctx context.Context) (int, error) {
	count, err := r.store.SearchCount(ctx, r.documentIndex, "*")
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
