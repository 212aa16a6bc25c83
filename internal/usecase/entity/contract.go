package entity

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

// Repository persists catalog entity records.
type Repository interface {
	Get(ctx context.Context, urn string) (*entity.Record, error)
	Save(ctx context.Context, rec *entity.Record) error
	Exists(ctx context.Context, urn string) (bool, error)
}
