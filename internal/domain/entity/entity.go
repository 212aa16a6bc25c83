// Package entity models catalog entity records and their metadata mutations.
package entity

import (
	"fmt"
	"slices"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
)

// Record is a catalog entity with its editable metadata.
type Record struct {
	URN         string
	Name        string
	Type        string
	Platform    string
	Description string
	Domain      string

	Tags          []string
	Owners        []string
	GlossaryTerms []string

	// Properties maps structured property URNs to their value lists.
	Properties map[string][]string
}

// NewRecord creates a record for the given URN.
func NewRecord(urn string) (*Record, error) {
	if urn == "" {
		return nil, fmt.Errorf("urn is required: %w", domain.ErrValidation)
	}
	return &Record{URN: urn, Properties: make(map[string][]string)}, nil
}

// AddTags appends tags that are not already present. Returns the number added.
func (r *Record) AddTags(tags ...string) int {
	return addUnique(&r.Tags, tags)
}

// RemoveTag removes a tag. Reports whether it was present.
func (r *Record) RemoveTag(tag string) bool {
	return removeValue(&r.Tags, tag)
}

// AddOwners appends owners that are not already present. Returns the number added.
func (r *Record) AddOwners(owners ...string) int {
	return addUnique(&r.Owners, owners)
}

// AddGlossaryTerms appends glossary terms that are not already present.
// Returns the number added.
func (r *Record) AddGlossaryTerms(terms ...string) int {
	return addUnique(&r.GlossaryTerms, terms)
}

// RemoveGlossaryTerm removes a glossary term. Reports whether it was present.
func (r *Record) RemoveGlossaryTerm(term string) bool {
	return removeValue(&r.GlossaryTerms, term)
}

// SetDomain assigns the entity to a domain.
func (r *Record) SetDomain(domainURN string) {
	r.Domain = domainURN
}

// UnsetDomain clears the domain assignment.
func (r *Record) UnsetDomain() {
	r.Domain = ""
}

// SetDescription replaces the entity description.
func (r *Record) SetDescription(text string) {
	r.Description = text
}

// SetProperty sets a structured property to the given values, replacing
// any previous values.
func (r *Record) SetProperty(propertyURN string, values []string) error {
	if propertyURN == "" {
		return fmt.Errorf("property urn is required: %w", domain.ErrValidation)
	}
	if len(values) == 0 {
		return fmt.Errorf("at least one value is required: %w", domain.ErrValidation)
	}
	if r.Properties == nil {
		r.Properties = make(map[string][]string)
	}
	r.Properties[propertyURN] = slices.Clone(values)
	return nil
}

func addUnique(dst *[]string, values []string) int {
	added := 0
	for _, v := range values {
		if v == "" || slices.Contains(*dst, v) {
			continue
		}
		*dst = append(*dst, v)
		added++
	}
	return added
}

func removeValue(dst *[]string, value string) bool {
	idx := slices.Index(*dst, value)
	if idx < 0 {
		return false
	}
	*dst = slices.Delete(*dst, idx, idx+1)
	return true
}
