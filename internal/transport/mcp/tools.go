package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	domainentity "github.com/kailas-cloud/catalogmcp/internal/domain/entity"
	domaingrep "github.com/kailas-cloud/catalogmcp/internal/domain/grep"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/request"
	"github.com/kailas-cloud/catalogmcp/internal/domain/search/result"
	"github.com/kailas-cloud/catalogmcp/internal/domain/tool"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/entity"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/fusion"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/gating"
	"github.com/kailas-cloud/catalogmcp/internal/usecase/grep"
)

// Deps are the services behind the catalog tools.
type Deps struct {
	EntitySearch   *fusion.Service
	DocumentSearch *fusion.Service
	Grep           *grep.Service
	Entities       *entity.Service
}

// RegisterCatalogTools registers every catalog tool on the server.
func RegisterCatalogTools(s *Server, d Deps) {
	s.Register(searchDescriptor("search",
		"Search the catalog for entities (datasets, dashboards, documents, ...) "+
			"by keyword, optionally fused with semantic retrieval."),
		searchHandler(d.EntitySearch))

	s.Register(tool.Descriptor{
		Name:        "get_entity",
		Description: "Fetch a single catalog entity by URN, including its editable metadata.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn": stringProp("Entity URN"),
		}, "urn"),
	}, getEntityHandler(d.Entities))

	s.Register(searchDescriptor(gating.ToolSearchDocuments,
		"Search catalog documents by keyword, optionally fused with semantic retrieval."),
		searchHandler(d.DocumentSearch))

	s.Register(tool.Descriptor{
		Name: gating.ToolGrepDocuments,
		Description: "Scan document text for a regex pattern and return excerpts " +
			"with absolute byte positions.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"refs":                arrayProp("Document URNs to search within"),
			"pattern":             stringProp("RE2 regex pattern"),
			"context_chars":       intProp("Excerpt context width in bytes (default 200)"),
			"max_matches_per_doc": intProp("Excerpts materialized per document (default 5)"),
			"start_offset":        intProp("Byte offset to start scanning from (default 0)"),
		}, "refs", "pattern"),
	}, grepHandler(d.Grep))

	registerMutationTools(s, d.Entities)
	registerBatchTools(s, d.Entities)
	registerCreationTools(s, d.Entities)
}

func searchDescriptor(name, description string) tool.Descriptor {
	return tool.Descriptor{
		Name:         name,
		Description:  description,
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"query":          stringProp("Full-text query; * matches everything"),
			"semantic_query": stringProp("Natural-language query for the semantic branch"),
			"filters": map[string]any{
				"type":        "object",
				"description": "Field to allowed-values map; conditions are AND-ed, values OR-ed",
			},
			"page_offset": intProp("Result offset (default 0)"),
			"page_size":   intProp("Page size (default 10, max 50)"),
		}, "query"),
	}
}

func searchHandler(svc *fusion.Service) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		query, err := stringArg(args, "query", true)
		if err != nil {
			return nil, err
		}
		semanticQuery, err := stringArg(args, "semantic_query", false)
		if err != nil {
			return nil, err
		}
		filters, err := filtersArg(args, "filters")
		if err != nil {
			return nil, err
		}
		pageOffset, err := intArg(args, "page_offset", 0)
		if err != nil {
			return nil, err
		}
		pageSize, err := intArg(args, "page_size", 0)
		if err != nil {
			return nil, err
		}

		req, err := request.New(query, semanticQuery, filters, pageOffset, pageSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		page, err := svc.Fuse(ctx, &req)
		if err != nil {
			return nil, err
		}
		return renderPage(page), nil
	}
}

func grepHandler(svc *grep.Service) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		refs, err := stringSliceArg(args, "refs", false)
		if err != nil {
			return nil, err
		}
		pattern, err := stringArg(args, "pattern", true)
		if err != nil {
			return nil, err
		}
		contextChars, err := intArg(args, "context_chars", 0)
		if err != nil {
			return nil, err
		}
		maxMatches, err := intArg(args, "max_matches_per_doc", 0)
		if err != nil {
			return nil, err
		}
		startOffset, err := intArg(args, "start_offset", 0)
		if err != nil {
			return nil, err
		}

		req, err := domaingrep.NewRequest(refs, pattern, contextChars, maxMatches, startOffset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		sum, err := svc.Grep(ctx, &req)
		if err != nil {
			return nil, err
		}
		return renderSummary(sum), nil
	}
}

func getEntityHandler(svc *entity.Service) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		rec, err := svc.Get(ctx, urn)
		if err != nil {
			return nil, err
		}
		return renderRecord(rec), nil
	}
}

// mutationResult is the uniform success payload of the mutation tools.
func mutationResult(urn string) map[string]any {
	return map[string]any{"urn": urn, "success": true}
}

func registerMutationTools(s *Server, svc *entity.Service) {
	urnOnly := func(required ...string) map[string]any {
		props := map[string]any{"urn": stringProp("Entity URN")}
		return objectSchema(props, required...)
	}

	s.Register(tool.Descriptor{
		Name:         "add_tags",
		Description:  "Attach tags to an entity. Already-attached tags are ignored.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":  stringProp("Entity URN"),
			"tags": arrayProp("Tags to attach"),
		}, "urn", "tags"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, tags, err := urnAndList(args, "tags")
		if err != nil {
			return nil, err
		}
		if err := svc.AddTags(ctx, urn, tags); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "remove_tag",
		Description:  "Detach one tag from an entity.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn": stringProp("Entity URN"),
			"tag": stringProp("Tag to detach"),
		}, "urn", "tag"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		tag, err := stringArg(args, "tag", true)
		if err != nil {
			return nil, err
		}
		if err := svc.RemoveTag(ctx, urn, tag); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "add_owners",
		Description:  "Attach owners to an entity.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":    stringProp("Entity URN"),
			"owners": arrayProp("Owner URNs to attach"),
		}, "urn", "owners"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, owners, err := urnAndList(args, "owners")
		if err != nil {
			return nil, err
		}
		if err := svc.AddOwners(ctx, urn, owners); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "add_terms",
		Description:  "Attach glossary terms to an entity.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":   stringProp("Entity URN"),
			"terms": arrayProp("Glossary term URNs to attach"),
		}, "urn", "terms"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, terms, err := urnAndList(args, "terms")
		if err != nil {
			return nil, err
		}
		if err := svc.AddTerms(ctx, urn, terms); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name: "remove_terms",
		Description: "Detach glossary terms from an entity. Terms are removed " +
			"independently; the result itemizes any term that was not attached.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":   stringProp("Entity URN"),
			"terms": arrayProp("Glossary term URNs to detach"),
		}, "urn", "terms"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, terms, err := urnAndList(args, "terms")
		if err != nil {
			return nil, err
		}
		if err := svc.RemoveTerms(ctx, urn, terms); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "set_domain",
		Description:  "Assign an entity to a domain.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":    stringProp("Entity URN"),
			"domain": stringProp("Domain URN"),
		}, "urn", "domain"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		domainURN, err := stringArg(args, "domain", true)
		if err != nil {
			return nil, err
		}
		if err := svc.SetDomain(ctx, urn, domainURN); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "unset_domain",
		Description:  "Clear an entity's domain assignment.",
		RequiresArgs: true,
		InputSchema:  urnOnly("urn"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		if err := svc.UnsetDomain(ctx, urn); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "update_description",
		Description:  "Replace an entity's description.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":         stringProp("Entity URN"),
			"description": stringProp("New description"),
		}, "urn", "description"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		description, err := stringArg(args, "description", false)
		if err != nil {
			return nil, err
		}
		if err := svc.UpdateDescription(ctx, urn, description); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})

	s.Register(tool.Descriptor{
		Name:         "set_structured_property",
		Description:  "Set a structured property on an entity, replacing previous values.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"urn":      stringProp("Entity URN"),
			"property": stringProp("Structured property URN"),
			"values":   arrayProp("Property values"),
		}, "urn", "property", "values"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		urn, err := stringArg(args, "urn", true)
		if err != nil {
			return nil, err
		}
		property, err := stringArg(args, "property", true)
		if err != nil {
			return nil, err
		}
		values, err := stringSliceArg(args, "values", true)
		if err != nil {
			return nil, err
		}
		if err := svc.SetStructuredProperty(ctx, urn, property, values); err != nil {
			return nil, err
		}
		return mutationResult(urn), nil
	})
}

func registerBatchTools(s *Server, svc *entity.Service) {
	batchSchema := objectSchema(map[string]any{
		"entities": arrayProp("Entity URNs to update"),
		"tags":     arrayProp("Tags to apply; bare names are expanded to tag URNs"),
	}, "entities", "tags")

	s.Register(tool.Descriptor{
		Name:         "batch_add_tags",
		Description:  "Attach the same tags to multiple entities at once.",
		RequiresArgs: true,
		InputSchema:  batchSchema,
	}, batchTagHandler("tags_added", svc.BatchAddTags))

	s.Register(tool.Descriptor{
		Name:         "batch_remove_tags",
		Description:  "Detach the same tags from multiple entities at once.",
		RequiresArgs: true,
		InputSchema:  batchSchema,
	}, batchTagHandler("tags_removed", svc.BatchRemoveTags))
}

func batchTagHandler(
	tagsKey string,
	op func(ctx context.Context, urns, tags []string) error,
) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		urns, err := stringSliceArg(args, "entities", true)
		if err != nil {
			return nil, err
		}
		tags, err := stringSliceArg(args, "tags", true)
		if err != nil {
			return nil, err
		}
		if err := op(ctx, urns, tags); err != nil {
			return nil, err
		}
		return map[string]any{
			"success":  true,
			"entities": urns,
			tagsKey:    domainentity.TagURNs(tags),
		}, nil
	}
}

func registerCreationTools(s *Server, svc *entity.Service) {
	s.Register(tool.Descriptor{
		Name:         "create_tag",
		Description:  "Create a new tag that can then be attached to entities.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"name":        stringProp("Display name for the tag"),
			"description": stringProp("Optional tag description"),
			"id":          stringProp("Optional id segment; a random UUID is used when omitted"),
		}, "name"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		name, description, id, err := creationArgs(args)
		if err != nil {
			return nil, err
		}
		urn, err := svc.CreateTag(ctx, name, description, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "tag_urn": urn, "name": name}, nil
	})

	s.Register(tool.Descriptor{
		Name:         "create_domain",
		Description:  "Create a new business domain for organizing entities.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"name":        stringProp("Display name for the domain"),
			"description": stringProp("Optional domain description"),
			"id":          stringProp("Optional id segment; derived from the name when omitted"),
		}, "name"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		name, description, id, err := creationArgs(args)
		if err != nil {
			return nil, err
		}
		urn, err := svc.CreateDomain(ctx, name, description, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "domain_urn": urn, "name": name}, nil
	})

	s.Register(tool.Descriptor{
		Name:         "create_glossary_term",
		Description:  "Create a new glossary term for standardizing business definitions.",
		RequiresArgs: true,
		InputSchema: objectSchema(map[string]any{
			"name":        stringProp("Display name for the term"),
			"definition":  stringProp("Business definition of the term"),
			"description": stringProp("Optional description, used when no definition is given"),
			"id":          stringProp("Optional id segment; derived from the name when omitted"),
		}, "name"),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		name, description, id, err := creationArgs(args)
		if err != nil {
			return nil, err
		}
		definition, err := stringArg(args, "definition", false)
		if err != nil {
			return nil, err
		}
		urn, err := svc.CreateGlossaryTerm(ctx, name, definition, description, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "term_urn": urn, "name": name}, nil
	})
}

func creationArgs(args map[string]any) (name, description, id string, err error) {
	if name, err = stringArg(args, "name", true); err != nil {
		return "", "", "", err
	}
	if description, err = stringArg(args, "description", false); err != nil {
		return "", "", "", err
	}
	if id, err = stringArg(args, "id", false); err != nil {
		return "", "", "", err
	}
	return name, description, id, nil
}

func urnAndList(args map[string]any, listKey string) (string, []string, error) {
	urn, err := stringArg(args, "urn", true)
	if err != nil {
		return "", nil, err
	}
	values, err := stringSliceArg(args, listKey, true)
	if err != nil {
		return "", nil, err
	}
	return urn, values, nil
}

// --- Result rendering ---

func renderPage(page *result.Page) map[string]any {
	hits := make([]map[string]any, 0, len(page.Hits))
	for i := range page.Hits {
		h := &page.Hits[i]
		entry := map[string]any{
			"urn":    h.Ref(),
			"score":  h.Score(),
			"source": string(h.Source()),
		}
		if len(h.Payload()) > 0 {
			entry["entity"] = json.RawMessage(h.Payload())
		}
		hits = append(hits, entry)
	}

	facets := make([]map[string]any, 0, len(page.Facets))
	for _, f := range page.Facets {
		values := make([]map[string]any, 0, len(f.Values))
		for _, v := range f.Values {
			values = append(values, map[string]any{"value": v.Value, "count": v.Count})
		}
		facets = append(facets, map[string]any{"field": f.Field, "values": values})
	}

	return map[string]any{
		"hits":                hits,
		"total_merged":        page.TotalMerged,
		"facets":              facets,
		"fetch_limit_reached": page.FetchLimitReached,
	}
}

func renderSummary(sum *domaingrep.Summary) map[string]any {
	docs := make([]map[string]any, 0, len(sum.Docs))
	for _, d := range sum.Docs {
		matches := make([]map[string]any, 0, len(d.Matches))
		for _, m := range d.Matches {
			matches = append(matches, map[string]any{
				"text":     m.Text,
				"position": m.Position,
			})
		}
		entry := map[string]any{
			"ref":           d.Ref,
			"title":         d.Title,
			"matches":       matches,
			"total_matches": d.TotalMatches,
		}
		if d.ContentLength != nil {
			entry["content_length"] = *d.ContentLength
		}
		docs = append(docs, entry)
	}

	return map[string]any{
		"docs":              docs,
		"total_matches":     sum.TotalMatches,
		"docs_with_matches": sum.DocsWithMatches,
	}
}

func renderRecord(rec *domainentity.Record) map[string]any {
	out := map[string]any{
		"urn":            rec.URN,
		"name":           rec.Name,
		"entity_type":    rec.Type,
		"platform":       rec.Platform,
		"description":    rec.Description,
		"tags":           rec.Tags,
		"owners":         rec.Owners,
		"glossary_terms": rec.GlossaryTerms,
	}
	if rec.Domain != "" {
		out["domain"] = rec.Domain
	}
	if len(rec.Properties) > 0 {
		out["structured_properties"] = rec.Properties
	}
	return out
}

// --- Schema helpers ---

func objectSchema(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func intProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func arrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}
