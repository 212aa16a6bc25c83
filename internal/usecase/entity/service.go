// Package entity implements the one-shot metadata mutation operations.
package entity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

// Service handles entity reads and metadata mutations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// New creates an entity service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get loads an entity record.
func (s *Service) Get(ctx context.Context, urn string) (*entity.Record, error) {
	if urn == "" {
		return nil, fmt.Errorf("%w: urn is required", domain.ErrValidation)
	}
	return s.repo.Get(ctx, urn)
}

// AddTags attaches tags to an entity. Already-present tags are ignored.
func (s *Service) AddTags(ctx context.Context, urn string, tags []string) error {
	if err := requireValues("tags", tags); err != nil {
		return err
	}
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.AddTags(tags...)
		return nil
	})
}

// RemoveTag detaches a tag. Removing an absent tag is a no-op.
func (s *Service) RemoveTag(ctx context.Context, urn, tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: tag is required", domain.ErrValidation)
	}
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.RemoveTag(tag)
		return nil
	})
}

// AddOwners attaches owners to an entity.
func (s *Service) AddOwners(ctx context.Context, urn string, owners []string) error {
	if err := requireValues("owners", owners); err != nil {
		return err
	}
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.AddOwners(owners...)
		return nil
	})
}

// AddTerms attaches glossary terms to an entity.
func (s *Service) AddTerms(ctx context.Context, urn string, terms []string) error {
	if err := requireValues("terms", terms); err != nil {
		return err
	}
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.AddGlossaryTerms(terms...)
		return nil
	})
}

// RemoveTerms detaches glossary terms. Each term succeeds or fails
// independently; when any fails the error itemizes every outcome, and
// the successful removals are still persisted.
func (s *Service) RemoveTerms(ctx context.Context, urn string, terms []string) error {
	if err := requireValues("terms", terms); err != nil {
		return err
	}

	rec, err := s.repo.Get(ctx, urn)
	if err != nil {
		return err
	}

	outcomes := make([]domain.TargetOutcome, len(terms))
	failed := false
	for i, term := range terms {
		outcomes[i] = domain.TargetOutcome{Target: term}
		if term == "" {
			outcomes[i].Err = fmt.Errorf("%w: empty term", domain.ErrValidation)
			failed = true
			continue
		}
		if !rec.RemoveGlossaryTerm(term) {
			outcomes[i].Err = fmt.Errorf("term not attached: %w", domain.ErrNotFound)
			failed = true
		}
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return err
	}

	if failed {
		return &domain.PartialFailureError{Op: "remove terms", Outcomes: outcomes}
	}
	return nil
}

// SetDomain assigns the entity to a domain.
func (s *Service) SetDomain(ctx context.Context, urn, domainURN string) error {
	if domainURN == "" {
		return fmt.Errorf("%w: domain urn is required", domain.ErrValidation)
	}
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.SetDomain(domainURN)
		return nil
	})
}

// UnsetDomain clears the entity's domain assignment.
func (s *Service) UnsetDomain(ctx context.Context, urn string) error {
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.UnsetDomain()
		return nil
	})
}

// UpdateDescription replaces the entity description.
func (s *Service) UpdateDescription(ctx context.Context, urn, description string) error {
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		rec.SetDescription(description)
		return nil
	})
}

// SetStructuredProperty sets a structured property to the given values,
// replacing previous values.
func (s *Service) SetStructuredProperty(
	ctx context.Context, urn, propertyURN string, values []string,
) error {
	return s.mutate(ctx, urn, func(rec *entity.Record) error {
		if err := rec.SetProperty(propertyURN, values); err != nil {
			return err
		}
		return nil
	})
}

// mutate runs a read-modify-write cycle on one entity record.
func (s *Service) mutate(ctx context.Context, urn string, fn func(*entity.Record) error) error {
	if urn == "" {
		return fmt.Errorf("%w: urn is required", domain.ErrValidation)
	}

	rec, err := s.repo.Get(ctx, urn)
	if err != nil {
		return err
	}
	if err := fn(rec); err != nil {
		return err
	}
	return s.repo.Save(ctx, rec)
}

func requireValues(what string, values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: at least one of %s is required", domain.ErrValidation, what)
	}
	return nil
}
