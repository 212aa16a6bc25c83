package gating

import (
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/domain/deployment"
)

// requirementSpec pins a tool's minimum backend version per deployment
// class. Empty means the tool is never available on that class.
type requirementSpec struct {
	tool           string
	hostedMin      string
	selfManagedMin string
}

// defaultRequirementSpecs is the static registry of version-gated tools.
// Tools absent from this table are available on every backend version.
var defaultRequirementSpecs = []requirementSpec{
	{tool: ToolSearchDocuments, hostedMin: "0.3.7", selfManagedMin: "1.0.0"},
	{tool: ToolGrepDocuments, hostedMin: "0.3.7", selfManagedMin: "1.0.0"},
	{tool: "add_tags", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "remove_tag", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "add_owners", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "add_terms", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "remove_terms", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "set_domain", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "unset_domain", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	{tool: "update_description", hostedMin: "0.3.9", selfManagedMin: "1.1.0"},
	// Structured properties shipped later and never reached self-managed.
	{tool: "set_structured_property", hostedMin: "0.3.12"},
}

// DefaultRequirements builds the version requirement registry. Malformed
// version strings fail here, at startup, not per request.
func DefaultRequirements() (map[string]deployment.Requirement, error) {
	reqs := make(map[string]deployment.Requirement, len(defaultRequirementSpecs))
	for _, spec := range defaultRequirementSpecs {
		req, err := deployment.NewRequirement(spec.hostedMin, spec.selfManagedMin)
		if err != nil {
			return nil, fmt.Errorf("requirement for %s: %w", spec.tool, err)
		}
		reqs[spec.tool] = req
	}
	return reqs, nil
}
