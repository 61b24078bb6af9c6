package stack

import "strings"

// Identity is the naming namespace for every resource in one deployment.
// It is derived from the (tag, name) pair alone, so two deployments with
// distinct pairs can never collide on a resource name.
type Identity struct {
	Name          string `json:"name"`
	Tag           string `json:"tag"`
	FullName      string `json:"full_name"`
	CanonicalName string `json:"canonical_name"`
}

// NewIdentity derives the deployment identity from the application tag and
// deployment name. FullName is "<tag>-<name>"; CanonicalName is its
// camel-cased form.
func NewIdentity(tag, name string) Identity {
	full := tag + "-" + name
	return Identity{
		Name:          name,
		Tag:           tag,
		FullName:      full,
		CanonicalName: CamelCase(full),
	}
}

// CamelCase collapses a hyphen-delimited name into a single token: the first
// segment is lower-cased and every later segment is capitalized on its first
// character with the remainder lower-cased. Empty segments from adjacent
// hyphens are skipped without emitting anything.
func CamelCase(s string) string {
	var b strings.Builder
	first := true
	for _, seg := range strings.Split(s, "-") {
		if seg == "" {
			continue
		}
		if first {
			b.WriteString(strings.ToLower(seg))
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(seg[:1]))
		b.WriteString(strings.ToLower(seg[1:]))
	}
	return b.String()
}
