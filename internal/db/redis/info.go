package redis

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/db"
)

// deploymentMetaKey is the hash key (relative to the key prefix) where the
// backend publishes its deployment mode and version.
const deploymentMetaKey = "meta:deployment"

// DeploymentMeta reads the deployment record published by the backend.
// Returns db.ErrKeyNotFound when the record is absent.
func (s *Store) DeploymentMeta(ctx context.Context) (db.DeploymentMeta, error) {
	fields, err := s.HGetAll(ctx, s.keyPrefix+deploymentMetaKey)
	if err != nil {
		return db.DeploymentMeta{}, err
	}
	if len(fields) == 0 {
		return db.DeploymentMeta{}, &db.Error{Op: db.OpHGetAll, Err: db.ErrKeyNotFound}
	}
	return db.DeploymentMeta{
		Mode:    fields["mode"],
		Version: fields["version"],
	}, nil
}
