// Package entity persists catalog entity records as hashes.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/entity"
)

const (
	entityKeyPrefix = "entity:"
	propFieldPrefix = "prop:"
	listSeparator   = ","
)

// store is the consumer interface for entity record operations (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/entity.Repository.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates an entity repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(urn string) string {
	return r.keyPrefix + entityKeyPrefix + urn
}

// Exists reports whether an entity record exists.
func (r *Repo) Exists(ctx context.Context, urn string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.key(urn))
	if err != nil {
		return false, fmt.Errorf("entity exists %s: %w", urn, err)
	}
	return ok, nil
}

// Get loads an entity record. Returns domain.ErrNotFound when absent.
func (r *Repo) Get(ctx context.Context, urn string) (*entity.Record, error) {
	fields, err := r.store.HGetAll(ctx, r.key(urn))
	if err != nil {
		return nil, fmt.Errorf("get entity %s: %w", urn, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("entity %s: %w", urn, domain.ErrNotFound)
	}

	rec := &entity.Record{
		URN:           urn,
		Name:          fields["name"],
		Type:          fields["entity_type"],
		Platform:      fields["platform"],
		Description:   fields["description"],
		Domain:        fields["domain"],
		Tags:          splitList(fields["tags"]),
		Owners:        splitList(fields["owners"]),
		GlossaryTerms: splitList(fields["glossary_terms"]),
		Properties:    make(map[string][]string),
	}

	for field, raw := range fields {
		propURN, ok := strings.CutPrefix(field, propFieldPrefix)
		if !ok {
			continue
		}
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("entity %s: property %s: %w", urn, propURN, err)
		}
		rec.Properties[propURN] = values
	}

	return rec, nil
}

// Save writes the record's editable metadata back to the store.
func (r *Repo) Save(ctx context.Context, rec *entity.Record) error {
	fields := map[string]string{
		"description":    rec.Description,
		"domain":         rec.Domain,
		"tags":           joinList(rec.Tags),
		"owners":         joinList(rec.Owners),
		"glossary_terms": joinList(rec.GlossaryTerms),
	}

	for propURN, values := range rec.Properties {
		raw, err := json.Marshal(values)
		if err != nil {
			return fmt.Errorf("entity %s: property %s: %w", rec.URN, propURN, err)
		}
		fields[propFieldPrefix+propURN] = string(raw)
	}

	if err := r.store.HSet(ctx, r.key(rec.URN), fields); err != nil {
		return fmt.Errorf("save entity %s: %w", rec.URN, err)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}
