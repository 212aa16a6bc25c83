package entity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

// CreateTag creates a tag entity and returns its URN. When id is empty
// a random UUID is used as the id segment.
func (s *Service) CreateTag(ctx context.Context, name, description, id string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	return s.create(ctx, entity.TagURNPrefix+id, "tag", name, description)
}

// CreateDomain creates a domain entity and returns its URN. When id is
// empty it is derived from the name.
func (s *Service) CreateDomain(ctx context.Context, name, description, id string) (string, error) {
	if id == "" {
		id = entity.SlugID(name)
	}
	return s.create(ctx, entity.DomainURNPrefix+id, "domain", name, description)
}

// CreateGlossaryTerm creates a glossary term entity and returns its URN.
// The definition, when given, takes precedence over the description.
// When id is empty it is derived from the name.
func (s *Service) CreateGlossaryTerm(
	ctx context.Context, name, definition, description, id string,
) (string, error) {
	if definition != "" {
		description = definition
	}
	if id == "" {
		id = entity.SlugID(name)
	}
	return s.create(ctx, entity.GlossaryTermURNPrefix+id, "glossaryTerm", name, description)
}

func (s *Service) create(ctx context.Context, urn, kind, name, description string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	exists, err := s.repo.Exists(ctx, urn)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s %s already exists", domain.ErrValidation, kind, urn)
	}

	rec, err := entity.NewRecord(urn)
	if err != nil {
		return "", err
	}
	rec.Name = name
	rec.Type = kind
	rec.SetDescription(description)

	if err := s.repo.Save(ctx, rec); err != nil {
		return "", err
	}
	s.logger.Info("created catalog entity",
		zap.String("kind", kind),
		zap.String("urn", urn))
	return urn, nil
}
