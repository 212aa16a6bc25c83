package entity

import "strings"

// URN prefixes for entity kinds this server can create.
const (
	TagURNPrefix          = "urn:li:tag:"
	DomainURNPrefix       = "urn:li:domain:"
	GlossaryTermURNPrefix = "urn:li:glossaryTerm:"
)

// TagURN normalizes a bare tag name to its URN form. Values already in
// URN form pass through unchanged.
func TagURN(tag string) string {
	if strings.HasPrefix(tag, TagURNPrefix) {
		return tag
	}
	return TagURNPrefix + tag
}

// TagURNs normalizes a list of tag names to URN form.
func TagURNs(tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = TagURN(tag)
	}
	return out
}

// SlugID derives a URN id segment from a display name: lowercased, with
// whitespace runs collapsed to a single hyphen.
func SlugID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
