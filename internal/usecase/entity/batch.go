package entity

import (
	"context"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

// BatchAddTags attaches the same tags to several entities. Bare tag
// names are normalized to tag URNs. Entities are updated independently;
// when any update fails the error itemizes the outcome per entity, and
// the successful updates stay persisted.
func (s *Service) BatchAddTags(ctx context.Context, urns, tags []string) error {
	return s.batchTagOp(ctx, "batch add tags", urns, tags,
		func(rec *entity.Record, tagURNs []string) {
			rec.AddTags(tagURNs...)
		})
}

// BatchRemoveTags detaches the same tags from several entities. Tags not
// attached to an entity are skipped. Failure reporting matches
// BatchAddTags.
func (s *Service) BatchRemoveTags(ctx context.Context, urns, tags []string) error {
	return s.batchTagOp(ctx, "batch remove tags", urns, tags,
		func(rec *entity.Record, tagURNs []string) {
			for _, tag := range tagURNs {
				rec.RemoveTag(tag)
			}
		})
}

func (s *Service) batchTagOp(
	ctx context.Context, op string, urns, tags []string,
	apply func(*entity.Record, []string),
) error {
	if err := requireValues("entities", urns); err != nil {
		return err
	}
	if err := requireValues("tags", tags); err != nil {
		return err
	}
	tagURNs := entity.TagURNs(tags)

	outcomes := make([]domain.TargetOutcome, len(urns))
	failed := false
	for i, urn := range urns {
		outcomes[i] = domain.TargetOutcome{Target: urn}
		err := s.mutate(ctx, urn, func(rec *entity.Record) error {
			apply(rec, tagURNs)
			return nil
		})
		if err != nil {
			outcomes[i].Err = err
			failed = true
		}
	}

	if failed {
		return &domain.PartialFailureError{Op: op, Outcomes: outcomes}
	}
	return nil
}
